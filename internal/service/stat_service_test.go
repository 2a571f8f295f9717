package service

import (
	"context"
	"testing"
)

func TestTotalUsers(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewStatService(users)

	total, err := svc.TotalUsers(context.Background())
	if err != nil {
		t.Fatalf("TotalUsers failed: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 on an empty platform", total)
	}

	users.add("Student", "student@example.com", "student", strPtrOf("8"), 0)
	users.add("Teacher", "teacher@example.com", "teacher", nil, 0)
	users.add("Parent", "parent@example.com", "parent", nil, 0)

	total, err = svc.TotalUsers(context.Background())
	if err != nil {
		t.Fatalf("TotalUsers failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}
