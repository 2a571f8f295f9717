// Package policy holds the role/grade/points rules that decide what a user
// may see and when a student is promoted to tutor. Every handler and service
// goes through these functions instead of re-deriving the rules locally.
package policy

import "strconv"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

const (
	MinGrade = 6
	MaxGrade = 11

	DefaultGrade = "6"

	// PromotionThreshold is the point total at which a student becomes a
	// tutor. The promotion is one-way; there is no demotion path.
	PromotionThreshold = 200

	// PointsPerAnswer is awarded for every accepted answer submission.
	PointsPerAnswer = 5

	MinAnswerLength = 12
	MaxAnswerLength = 4000

	// ClassAverageFloor clamps class averages so a grade with no other
	// students never reports zero.
	ClassAverageFloor = 2
)

// RatingValues are the only point values an asker may award to an answer.
var RatingValues = []int{5, 10, 15, 20, 25}

// NormalizeRole maps a stored role string to a known Role. Anything missing
// or unrecognized is treated as a plain student.
func NormalizeRole(s string) Role {
	switch Role(s) {
	case RoleTutor, RoleTeacher, RoleParent, RoleStudent:
		return Role(s)
	default:
		return RoleStudent
	}
}

// NormalizeGrade returns the grade unchanged if it is one of "6".."11",
// otherwise the default grade.
func NormalizeGrade(s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= MinGrade && n <= MaxGrade {
		return s
	}
	return DefaultGrade
}

// ValidGrade reports whether s is an enumerated grade.
func ValidGrade(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= MinGrade && n <= MaxGrade
}

// VisibleGrades returns the set of grades whose questions and resources the
// viewer may see. Teachers see every grade, tutors see their own grade and
// all lower ones, students see only their own grade. Parents have no feed.
func VisibleGrades(role Role, grade string) []string {
	switch role {
	case RoleTeacher:
		return gradeRange(MinGrade, MaxGrade)
	case RoleTutor:
		g, err := strconv.Atoi(NormalizeGrade(grade))
		if err != nil {
			g = MinGrade
		}
		return gradeRange(MinGrade, g)
	case RoleStudent:
		return []string{NormalizeGrade(grade)}
	default:
		return nil
	}
}

// CanSee reports whether a viewer with the given role and grade may see an
// item partitioned under itemGrade.
func CanSee(role Role, viewerGrade, itemGrade string) bool {
	for _, g := range VisibleGrades(role, viewerGrade) {
		if g == itemGrade {
			return true
		}
	}
	return false
}

// ShouldPromote reports whether a points total crosses the tutor threshold
// for a user that is still a student. Tutors, teachers and parents are
// never promoted.
func ShouldPromote(role Role, points int) bool {
	return role == RoleStudent && points >= PromotionThreshold
}

// ValidRating reports whether v is one of the allowed rating values.
func ValidRating(v int) bool {
	for _, rv := range RatingValues {
		if rv == v {
			return true
		}
	}
	return false
}

func gradeRange(from, to int) []string {
	if to < from {
		to = from
	}
	if to > MaxGrade {
		to = MaxGrade
	}
	grades := make([]string, 0, to-from+1)
	for g := from; g <= to; g++ {
		grades = append(grades, strconv.Itoa(g))
	}
	return grades
}
