package service

import (
	"context"
	"errors"
	"testing"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
)

func newParentServiceFixture() (ParentService, *fakeUserRepo, *fakeQuestionRepo, *fakeAnswerRepo, *fakeNotifier) {
	users := newFakeUserRepo()
	questions := newFakeQuestionRepo()
	answers := newFakeAnswerRepo(users, questions)
	notifier := &fakeNotifier{}
	svc := NewParentService(users, questions, answers, notifier)
	return svc, users, questions, answers, notifier
}

func seedAnswer(answers *fakeAnswerRepo, questionID, userID uuid.UUID) {
	a := &model.Answer{ID: uuid.New(), QuestionID: questionID, AnsweredByID: userID, Text: "seeded"}
	answers.answers[a.ID] = a
}

func TestDashboard(t *testing.T) {
	svc, users, questions, answers, _ := newParentServiceFixture()

	child := users.add("Child", "child@example.com", "student", strPtrOf("7"), 9)
	peerA := users.add("Peer A", "peera@example.com", "student", strPtrOf("7"), 3)
	users.add("Peer B", "peerb@example.com", "student", strPtrOf("7"), 0)
	users.add("Other Grade", "other@example.com", "student", strPtrOf("8"), 100)

	parent := users.add("Parent", "parent@example.com", "parent", nil, 0)
	parent.StudentEmail = strPtrOf("child@example.com")

	q1 := questions.add(child, "7", "First question")
	questions.add(child, "7", "Second question")
	q3 := questions.add(peerA, "7", "Peer question")
	seedAnswer(answers, q3.ID, child.ID)
	seedAnswer(answers, q1.ID, peerA.ID)

	dashboard, err := svc.Dashboard(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if dashboard.Child.DisplayName != "Child" {
		t.Errorf("child display name = %q", dashboard.Child.DisplayName)
	}
	if dashboard.Child.Grade != "7" {
		t.Errorf("child grade = %q, want 7", dashboard.Child.Grade)
	}
	if dashboard.Child.Points != 9 {
		t.Errorf("child points = %d, want 9", dashboard.Child.Points)
	}
	if dashboard.Child.QuestionsAsked != 2 {
		t.Errorf("questions asked = %d, want 2", dashboard.Child.QuestionsAsked)
	}
	if dashboard.Child.AnswersGiven != 1 {
		t.Errorf("answers given = %d, want 1", dashboard.Child.AnswersGiven)
	}

	// 3 students in grade 7: points 9+3+0=12 -> 4, questions 3 -> 1 clamped
	// to 2, answers 2 -> 0 clamped to 2.
	if dashboard.ClassAverage.Points != 4 {
		t.Errorf("class average points = %d, want 4", dashboard.ClassAverage.Points)
	}
	if dashboard.ClassAverage.Questions != policy.ClassAverageFloor {
		t.Errorf("class average questions = %d, want floor %d", dashboard.ClassAverage.Questions, policy.ClassAverageFloor)
	}
	if dashboard.ClassAverage.Answers != policy.ClassAverageFloor {
		t.Errorf("class average answers = %d, want floor %d", dashboard.ClassAverage.Answers, policy.ClassAverageFloor)
	}
}

func TestDashboardAveragesNeverZero(t *testing.T) {
	svc, users, _, _, _ := newParentServiceFixture()

	child := users.add("Lonely Child", "lonely@example.com", "student", strPtrOf("11"), 0)
	parent := users.add("Parent", "parent@example.com", "parent", nil, 0)
	parent.StudentEmail = strPtrOf("lonely@example.com")
	_ = child

	dashboard, err := svc.Dashboard(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if dashboard.ClassAverage.Questions < policy.ClassAverageFloor ||
		dashboard.ClassAverage.Answers < policy.ClassAverageFloor ||
		dashboard.ClassAverage.Points < policy.ClassAverageFloor {
		t.Errorf("class averages fell below floor: %+v", dashboard.ClassAverage)
	}
}

func TestDashboardLinkedStudentMissing(t *testing.T) {
	svc, users, _, _, _ := newParentServiceFixture()

	parent := users.add("Parent", "parent@example.com", "parent", nil, 0)
	parent.StudentEmail = strPtrOf("ghost@example.com")

	_, err := svc.Dashboard(context.Background(), parent.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Dashboard with missing student = %v, want not found", err)
	}
}

func TestDashboardRequiresParentRole(t *testing.T) {
	svc, users, _, _, _ := newParentServiceFixture()

	student := users.add("Student", "student@example.com", "student", strPtrOf("8"), 0)

	_, err := svc.Dashboard(context.Background(), student.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Dashboard as student = %v, want forbidden", err)
	}
}

func TestDashboardFindsTutorChild(t *testing.T) {
	svc, users, _, _, _ := newParentServiceFixture()

	users.add("Tutor Child", "tutor@example.com", "tutor", strPtrOf("9"), 250)
	parent := users.add("Parent", "parent@example.com", "parent", nil, 0)
	parent.StudentEmail = strPtrOf("tutor@example.com")

	dashboard, err := svc.Dashboard(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dashboard.Child.Role != string(policy.RoleTutor) {
		t.Errorf("child role = %q, want tutor", dashboard.Child.Role)
	}
}

func TestSendKudos(t *testing.T) {
	svc, users, _, _, notifier := newParentServiceFixture()

	child := users.add("Child", "child@example.com", "student", strPtrOf("7"), 0)
	parent := users.add("Parent", "parent@example.com", "parent", nil, 0)
	parent.StudentEmail = strPtrOf("child@example.com")

	if err := svc.SendKudos(context.Background(), parent.ID, ""); err != nil {
		t.Fatalf("SendKudos failed: %v", err)
	}

	kudos := notifier.byType(model.NotificationKudos)
	if len(kudos) != 1 {
		t.Fatalf("got %d kudos notifications, want 1", len(kudos))
	}
	if kudos[0].UserID != child.ID {
		t.Errorf("kudos went to %s, want child %s", kudos[0].UserID, child.ID)
	}
	if kudos[0].ActorID == nil || *kudos[0].ActorID != parent.ID {
		t.Errorf("kudos actor = %v, want parent %s", kudos[0].ActorID, parent.ID)
	}
	if kudos[0].Message == "" {
		t.Error("empty kudos message was not defaulted")
	}
}
