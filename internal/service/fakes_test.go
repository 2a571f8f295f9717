package service

import (
	"context"
	"sort"
	"time"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests. They emulate the
// transactional side effects of the real repositories (status flips, point
// credits, role promotion) without a database.

var fakeRoleIDs = map[string]uint{
	string(policy.RoleStudent): 1,
	string(policy.RoleTutor):   2,
	string(policy.RoleTeacher): 3,
	string(policy.RoleParent):  4,
}

func fakeRole(name string) model.Role {
	return model.Role{ID: fakeRoleIDs[name], Name: name}
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) add(displayName, email, role string, grade *string, points int) *model.User {
	roleRecord := fakeRole(role)
	user := &model.User{
		ID:           uuid.New(),
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: "x",
		RoleID:       &roleRecord.ID,
		Role:         roleRecord,
		Grade:        grade,
		Points:       points,
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.RoleID != nil {
		for name, id := range fakeRoleIDs {
			if id == *user.RoleID {
				user.Role = fakeRole(name)
			}
		}
	}
	r.users[user.ID] = user
	return nil
}

// Find methods return copies the way a real database read would, so callers
// mutating the result cannot corrupt the stored record.
func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmailAndRoles(ctx context.Context, email string, roles []string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email != email {
			continue
		}
		for _, role := range roles {
			if user.Role.Name == role {
				copied := *user
				return &copied, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	if _, ok := fakeRoleIDs[name]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	role := fakeRole(name)
	return &role, nil
}

func (r *fakeUserRepo) FindStudentsByGrade(ctx context.Context, grade string) ([]*model.User, error) {
	var out []*model.User
	for _, user := range r.users {
		if user.Grade == nil || *user.Grade != grade {
			continue
		}
		if user.Role.Name == string(policy.RoleStudent) || user.Role.Name == string(policy.RoleTutor) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) TopByPoints(ctx context.Context, grade string, limit int) ([]*model.User, error) {
	var out []*model.User
	for _, user := range r.users {
		if user.Role.Name != string(policy.RoleStudent) && user.Role.Name != string(policy.RoleTutor) {
			continue
		}
		if grade != "" && (user.Grade == nil || *user.Grade != grade) {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RoleID = &roleID
	for name, id := range fakeRoleIDs {
		if id == roleID {
			user.Role = fakeRole(name)
		}
	}
	return nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, userID uuid.UUID, points int) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Points += points
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeQuestionRepo struct {
	questions map[uuid.UUID]*model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uuid.UUID]*model.Question)}
}

func (r *fakeQuestionRepo) add(askedBy *model.User, grade, title string) *model.Question {
	question := &model.Question{
		ID:        uuid.New(),
		Title:     title,
		Grade:     grade,
		AskedByID: askedBy.ID,
		AskedBy:   *askedBy,
		Status:    model.QuestionStatusUnanswered,
		CreatedAt: time.Now(),
	}
	r.questions[question.ID] = question
	return question
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	r.questions[question.ID] = question
	return nil
}

func (r *fakeQuestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (r *fakeQuestionRepo) FindByGrade(ctx context.Context, grade string, offset, limit int) ([]*model.Question, int64, error) {
	var out []*model.Question
	for _, q := range r.questions {
		if q.Grade == grade {
			out = append(out, q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuestionRepo) FindAnswerable(ctx context.Context, grades []string, excludeUserID uuid.UUID, subject string, unansweredOnly bool, offset, limit int) ([]*model.Question, int64, error) {
	gradeSet := make(map[string]bool, len(grades))
	for _, g := range grades {
		gradeSet[g] = true
	}

	var out []*model.Question
	for _, q := range r.questions {
		if !gradeSet[q.Grade] || q.AskedByID == excludeUserID {
			continue
		}
		if subject != "" && q.Subject != subject {
			continue
		}
		if unansweredOnly && q.Status != model.QuestionStatusUnanswered {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuestionRepo) IncrementUpvotes(ctx context.Context, id uuid.UUID) error {
	question, ok := r.questions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	question.Upvotes++
	return nil
}

func (r *fakeQuestionRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, q := range r.questions {
		if q.AskedByID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuestionRepo) CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for _, id := range userIDs {
		n, _ := r.CountByUser(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

type fakeAnswerRepo struct {
	answers   map[uuid.UUID]*model.Answer
	users     *fakeUserRepo
	questions *fakeQuestionRepo
}

func newFakeAnswerRepo(users *fakeUserRepo, questions *fakeQuestionRepo) *fakeAnswerRepo {
	return &fakeAnswerRepo{
		answers:   make(map[uuid.UUID]*model.Answer),
		users:     users,
		questions: questions,
	}
}

func (r *fakeAnswerRepo) CreateWithSideEffects(ctx context.Context, answer *model.Answer, points int, promoteToRoleID *uint) error {
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	answer.CreatedAt = time.Now()
	r.answers[answer.ID] = answer

	question, ok := r.questions.questions[answer.QuestionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	question.Status = model.QuestionStatusAnswered

	if err := r.users.AddPoints(ctx, answer.AnsweredByID, points); err != nil {
		return err
	}
	if promoteToRoleID != nil {
		return r.users.UpdateRole(ctx, answer.AnsweredByID, *promoteToRoleID)
	}
	return nil
}

func (r *fakeAnswerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Answer, error) {
	answer, ok := r.answers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *answer
	if question, ok := r.questions.questions[answer.QuestionID]; ok {
		copied.Question = *question
	}
	if user, ok := r.users.users[answer.AnsweredByID]; ok {
		copied.AnsweredBy = *user
	}
	return &copied, nil
}

func (r *fakeAnswerRepo) Rate(ctx context.Context, answerID uuid.UUID, rating int, ratedBy uuid.UUID, points int, promoteToRoleID *uint) error {
	answer, ok := r.answers[answerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	answer.Rating = &rating
	answer.RatedByID = &ratedBy

	if err := r.users.AddPoints(ctx, answer.AnsweredByID, points); err != nil {
		return err
	}
	if promoteToRoleID != nil {
		return r.users.UpdateRole(ctx, answer.AnsweredByID, *promoteToRoleID)
	}
	return nil
}

func (r *fakeAnswerRepo) IncrementUpvotes(ctx context.Context, id uuid.UUID) error {
	answer, ok := r.answers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	answer.Upvotes++
	return nil
}

func (r *fakeAnswerRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, a := range r.answers {
		if a.AnsweredByID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAnswerRepo) CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for _, id := range userIDs {
		n, _ := r.CountByUser(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

// fakeRateLimiter records every cooldown slot services ask for and can be
// told to deny specific actions.
type fakeRateLimiter struct {
	denied   map[string]bool
	acquired []string
	released []string
}

func (l *fakeRateLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	l.acquired = append(l.acquired, action)
	return !l.denied[action], nil
}

func (l *fakeRateLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	return 3 * time.Second, nil
}

func (l *fakeRateLimiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	l.released = append(l.released, action)
	return nil
}

func (l *fakeRateLimiter) acquiredCount(action string) int {
	var count int
	for _, a := range l.acquired {
		if a == action {
			count++
		}
	}
	return count
}

// fakeNotifier records notifications synchronously so tests can assert on
// side effects that are async in production.
type fakeNotifier struct {
	sent []*model.Notification
}

func (n *fakeNotifier) Create(ctx context.Context, notification *model.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func (n *fakeNotifier) NotifyAsync(notification *model.Notification) {
	n.sent = append(n.sent, notification)
}

func (n *fakeNotifier) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error { return nil }

func (n *fakeNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (n *fakeNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (n *fakeNotifier) Delete(ctx context.Context, userID, id uuid.UUID) error { return nil }

func (n *fakeNotifier) byType(notificationType string) []*model.Notification {
	var out []*model.Notification
	for _, notification := range n.sent {
		if notification.Type == notificationType {
			out = append(out, notification)
		}
	}
	return out
}

func strPtrOf(s string) *string {
	return &s
}
