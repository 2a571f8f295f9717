package bootstrap

import (
	"log"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Question{},
		&model.Answer{},
		&model.Resource{},
		&model.Download{},
		&model.Notification{},
		&model.StudyTask{},
		&model.StudySession{},
		&model.PointLog{},
	)
}

// SeedRoles inserts the four account roles if they are missing.
func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: string(policy.RoleStudent), Description: "Student asking and answering questions in their grade"},
		{Name: string(policy.RoleTutor), Description: "Promoted student helping lower grades"},
		{Name: string(policy.RoleTeacher), Description: "Teacher with access to every grade"},
		{Name: string(policy.RoleParent), Description: "Parent following a linked student"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedTeacherUser creates a development teacher account so every grade is
// reachable on a fresh database. Only called when APP_ENV is development.
func SeedTeacherUser(db *gorm.DB) error {
	var teacherRole model.Role
	if err := db.Where("name = ?", string(policy.RoleTeacher)).First(&teacherRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "teacher@edulink.dev").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("teacher123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	subject := "Mathematics"
	teacher := model.User{
		DisplayName:  "Demo Teacher",
		Email:        "teacher@edulink.dev",
		PasswordHash: string(hash),
		RoleID:       &teacherRole.ID,
		Subject:      &subject,
	}

	if err := db.Create(&teacher).Error; err != nil {
		return err
	}

	log.Println("seeded development teacher account teacher@edulink.dev")
	return nil
}
