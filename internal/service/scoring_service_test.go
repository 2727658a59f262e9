package service

import (
	"context"
	"errors"
	"testing"

	"studyforge_backend/internal/model"
	"studyforge_backend/internal/repository"
	"studyforge_backend/internal/util"

	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestLeaderboard_SumsAndRanks(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuizAttemptRepository(db)
	svc := NewScoringService(repo, nil)

	u1 := seedUser(t, db, "alice", "alice@example.com")
	u2 := seedUser(t, db, "bob", "bob@example.com")

	for _, a := range []struct {
		user  *model.User
		score int
	}{
		{u1, 10}, {u1, 5}, {u2, 20},
	} {
		if _, err := svc.RecordAttempt(a.user.ID, 1, a.score, nil); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	rows, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID != u2.ID || rows[0].TotalScore != 20 {
		t.Fatalf("expected bob first with 20, got %+v", rows[0])
	}
	if rows[1].UserID != u1.ID || rows[1].TotalScore != 15 {
		t.Fatalf("expected alice second with 15, got %+v", rows[1])
	}
	if rows[0].Name != "bob" {
		t.Fatalf("row must carry display name, got %q", rows[0].Name)
	}
}

func TestLeaderboard_TiesBreakOnUserID(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuizAttemptRepository(db)
	svc := NewScoringService(repo, nil)

	u1 := seedUser(t, db, "alice", "alice@example.com")
	u2 := seedUser(t, db, "bob", "bob@example.com")

	if _, err := svc.RecordAttempt(u2.ID, 1, 15, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := svc.RecordAttempt(u1.ID, 1, 15, nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != u1.ID || rows[1].UserID != u2.ID {
		t.Fatalf("tied scores must order by ascending user id, got %+v", rows)
	}
}

func TestMyRank(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuizAttemptRepository(db)
	svc := NewScoringService(repo, nil)

	u1 := seedUser(t, db, "alice", "alice@example.com")
	u2 := seedUser(t, db, "bob", "bob@example.com")
	u3 := seedUser(t, db, "carol", "carol@example.com")

	svc.RecordAttempt(u1.ID, 1, 30, nil)
	svc.RecordAttempt(u2.ID, 1, 50, nil)

	rank, err := svc.MyRank(context.Background(), u1.ID)
	if err != nil {
		t.Fatalf("my rank: %v", err)
	}
	if rank.Rank != 2 || rank.TotalScore != 30 {
		t.Fatalf("expected rank 2 with 30, got %+v", rank)
	}

	if _, err := svc.MyRank(context.Background(), u3.ID); !errors.Is(err, util.ErrNoAttempts) {
		t.Fatalf("expected ErrNoAttempts for user without plays, got %v", err)
	}
}
