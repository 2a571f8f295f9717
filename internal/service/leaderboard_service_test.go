package service

import (
	"context"
	"testing"
)

func TestLeaderboardTop(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewLeaderboardService(users)

	users.add("First", "first@example.com", "tutor", strPtrOf("9"), 300)
	users.add("Second", "second@example.com", "student", strPtrOf("8"), 120)
	users.add("Third", "third@example.com", "student", strPtrOf("9"), 40)
	users.add("Teacher", "teacher@example.com", "teacher", nil, 0)
	users.add("Parent", "parent@example.com", "parent", nil, 0)

	entries, err := svc.Top(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (teachers and parents excluded)", len(entries))
	}
	if entries[0].DisplayName != "First" || entries[0].Position != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Points > entries[0].Points || entries[2].Points > entries[1].Points {
		t.Error("entries are not sorted by points descending")
	}
}

func TestLeaderboardGradeScoped(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewLeaderboardService(users)

	users.add("Nine A", "ninea@example.com", "student", strPtrOf("9"), 90)
	users.add("Nine B", "nineb@example.com", "tutor", strPtrOf("9"), 210)
	users.add("Eight", "eight@example.com", "student", strPtrOf("8"), 500)

	entries, err := svc.Top(context.Background(), "9", 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries for grade 9, want 2", len(entries))
	}
	for _, entry := range entries {
		if entry.Grade == nil || *entry.Grade != "9" {
			t.Errorf("entry %q outside grade 9: %v", entry.DisplayName, entry.Grade)
		}
	}
}

func TestLeaderboardLimitFallback(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewLeaderboardService(users)

	for i := 0; i < 15; i++ {
		users.add("Player", "player@example.com", "student", strPtrOf("8"), i)
	}

	entries, err := svc.Top(context.Background(), "", -3)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("got %d entries with bogus limit, want default 10", len(entries))
	}
}
