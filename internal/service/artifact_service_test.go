package service

import (
	"testing"
	"time"

	"studyforge_backend/internal/config"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/repository"
)

func dispatchConfig(enabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.Generation.InternalDispatch = enabled
	return cfg
}

func TestCreate_ForcesPendingAndPublishesInsert(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	pub := &recordingPublisher{}
	svc := NewArtifactService(repo, pub, dispatchConfig(false))

	a, err := svc.Create(1, model.KindExam, "Biology 101", "cells divide", "", map[string]any{"num_questions": 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != model.StatusPending {
		t.Fatalf("new artifact must be pending, got %q", a.Status)
	}
	if len(a.Content) != 0 || a.ErrorMessage != "" {
		t.Fatalf("new artifact must carry no result fields")
	}
	if a.ParamInt("num_questions", 0) != 5 {
		t.Fatalf("params not persisted: %s", a.GenerationParams)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.events) != 1 || pub.events[0].Type != realtime.EventInsert {
		t.Fatalf("expected one insert event, got %+v", pub.events)
	}
}

func TestCreate_InternalDispatchRunsWorker(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	gen := NewGenerationService(repo, ai, nil)

	svc := NewArtifactService(repo, nil, dispatchConfig(true))
	svc.EnableInternalDispatch(gen)

	a, err := svc.Create(1, model.KindExam, "t", "s", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := repo.FindByID(a.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Status == model.StatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("internal dispatch did not complete the artifact in time")
}

func TestCreate_DispatchToggleIsReadPerCreate(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	gen := NewGenerationService(repo, ai, nil)

	cfg := dispatchConfig(false)
	svc := NewArtifactService(repo, nil, cfg)
	svc.EnableInternalDispatch(gen)

	a, err := svc.Create(1, model.KindExam, "t", "s", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	got, err := repo.FindByID(a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Fatalf("disabled dispatch must leave artifact pending, got %q", got.Status)
	}
	if ai.callCount() != 0 {
		t.Fatalf("disabled dispatch must not call the AI, got %d calls", ai.callCount())
	}

	// Simulate a config reload flipping the toggle on. The next create
	// must pick it up without rebuilding the service.
	cfg.ApplyReloadable(dispatchConfig(true))

	b, err := svc.Create(1, model.KindExam, "t2", "s2", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := repo.FindByID(b.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.Status == model.StatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("re-enabled dispatch did not complete the artifact in time")
}

func TestDelete_MismatchIsSilent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	svc := NewArtifactService(repo, nil, dispatchConfig(false))

	a, err := svc.Create(1, model.KindQuiz, "t", "s", "beginner", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(a.ID, 2); err != nil {
		t.Fatalf("foreign delete must not error: %v", err)
	}
	if err := svc.Delete(9999, 1); err != nil {
		t.Fatalf("missing delete must not error: %v", err)
	}

	if _, err := repo.FindByID(a.ID); err != nil {
		t.Fatalf("record must survive: %v", err)
	}

	if err := svc.Delete(a.ID, 1); err != nil {
		t.Fatalf("owned delete: %v", err)
	}
	if _, err := repo.FindByID(a.ID); err == nil {
		t.Fatalf("record must be gone after owned delete")
	}
}
