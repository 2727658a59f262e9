package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"studyforge_backend/internal/model"
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/repository"
	"studyforge_backend/pkg/database"
	"studyforge_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection keeps the shared-cache database alive and serializes
	// writes the way production mysql would.
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type stubCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	text    string
	err     error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func (s *stubCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.ArtifactEvent
}

func (p *recordingPublisher) PublishArtifact(ev realtime.ArtifactEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) statuses() []model.ArtifactStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.ArtifactStatus
	for _, ev := range p.events {
		out = append(out, ev.Record.Status)
	}
	return out
}

func createArtifact(t *testing.T, repo *repository.ArtifactRepository, kind model.ArtifactKind, params string) *model.Artifact {
	t.Helper()
	a := &model.Artifact{
		OwnerID:     1,
		Kind:        kind,
		Title:       "test",
		SourceInput: "The mitochondria is the powerhouse of the cell.",
		Status:      model.StatusPending,
	}
	if kind == model.KindQuiz {
		a.Level = "beginner"
	}
	if params != "" {
		a.GenerationParams = json.RawMessage(params)
	}
	if err := repo.Create(a); err != nil {
		t.Fatalf("create artifact: %v", err)
	}
	return a
}

const validExamJSON = `{"questions":[
	{"question":"Q1?","options":["a","b","c","d"],"answer":"a"},
	{"question":"Q2?","options":["a","b","c","d"],"answer":"b"}
]}`

func TestProcess_ValidOutputCompletesArtifact(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: "```json\n" + validExamJSON + "\n```"}
	pub := &recordingPublisher{}
	svc := NewGenerationService(repo, ai, pub)

	a := createArtifact(t, repo, model.KindExam, "")

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, err := repo.FindByID(a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("expected empty error message, got %q", got.ErrorMessage)
	}

	var content model.ExamContent
	if err := json.Unmarshal(got.Content, &content); err != nil {
		t.Fatalf("unmarshal stored content: %v", err)
	}
	if len(content.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(content.Questions))
	}

	statuses := pub.statuses()
	if len(statuses) != 2 || statuses[0] != model.StatusProcessing || statuses[1] != model.StatusCompleted {
		t.Fatalf("unexpected event statuses: %v", statuses)
	}
}

func TestProcess_InvalidJSONFailsArtifact(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: "I'm sorry, I cannot produce JSON today."}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindExam, "")

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process should not surface parse failures: %v", err)
	}

	got, _ := repo.FindByID(a.ID)
	if got.Status != model.StatusFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}
	if len(got.Content) != 0 {
		t.Fatalf("failed artifact must not carry content, got %s", got.Content)
	}
	if !strings.Contains(got.ErrorMessage, "invalid exam JSON") {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
}

func TestProcess_QuizFailureUsesFriendlyMessage(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: "not json"}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindQuiz, "")

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, _ := repo.FindByID(a.ID)
	if got.Status != model.StatusFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}
	if got.ErrorMessage != quizFailureMessage {
		t.Fatalf("expected friendly quiz message, got %q", got.ErrorMessage)
	}
}

func TestProcess_AIErrorFailsArtifact(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{err: fmt.Errorf("provider unavailable")}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindCourse, "")

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, _ := repo.FindByID(a.ID)
	if got.Status != model.StatusFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}
	if got.ErrorMessage != "provider unavailable" {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
	if ai.callCount() != 1 {
		t.Fatalf("expected exactly one AI call, got %d", ai.callCount())
	}
}

func TestProcess_NonPendingIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)

	for _, status := range []model.ArtifactStatus{model.StatusProcessing, model.StatusCompleted, model.StatusFailed} {
		ai := &stubCompleter{text: validExamJSON}
		svc := NewGenerationService(repo, ai, nil)

		a := createArtifact(t, repo, model.KindExam, "")
		if err := db.Model(a).Update("status", status).Error; err != nil {
			t.Fatalf("seed status: %v", err)
		}

		if err := svc.Process(context.Background(), a.ID); err != nil {
			t.Fatalf("process on %q: %v", status, err)
		}
		if ai.callCount() != 0 {
			t.Fatalf("AI must not be called for %q record", status)
		}

		got, _ := repo.FindByID(a.ID)
		if got.Status != status {
			t.Fatalf("status mutated from %q to %q", status, got.Status)
		}
	}
}

func TestProcess_ConcurrentInvocationsCallAIOnce(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindExam, "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Process(context.Background(), a.ID)
		}()
	}
	wg.Wait()

	if ai.callCount() != 1 {
		t.Fatalf("expected exactly one AI call across duplicates, got %d", ai.callCount())
	}
	got, _ := repo.FindByID(a.ID)
	if got.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
}

func TestProcess_DeletedRecordIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindExam, "")
	if _, err := repo.DeleteOwned(a.ID, a.OwnerID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process on deleted record: %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatalf("AI must not be called for a deleted record")
	}
}

func TestProcess_RecordVanishingAfterClaimIsNoOp(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	svc := NewGenerationService(repo, ai, nil)

	a := createArtifact(t, repo, model.KindExam, "")

	// Delete the row the moment the claim update lands, before the
	// follow-up read. Mirrors a user deleting the artifact mid-flight.
	err := db.Callback().Update().After("gorm:update").Register("drop_after_claim", func(tx *gorm.DB) {
		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM artifacts WHERE id = ?", a.ID)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Update().Remove("drop_after_claim")

	if err := svc.Process(context.Background(), a.ID); err != nil {
		t.Fatalf("process on vanished record must not error: %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatalf("AI must not be called once the record is gone")
	}
}

func TestBuildExamPrompt_Defaults(t *testing.T) {
	a := &model.Artifact{Kind: model.KindExam, SourceInput: "src"}
	prompt := buildExamPrompt(a)
	if !strings.Contains(prompt, "exactly 10 questions") {
		t.Fatalf("expected default of 10 questions, got: %s", prompt)
	}

	a.GenerationParams = json.RawMessage(`{"num_questions": 5}`)
	prompt = buildExamPrompt(a)
	if !strings.Contains(prompt, "exactly 5 questions") {
		t.Fatalf("expected 5 questions, got: %s", prompt)
	}
	if !strings.Contains(prompt, "src") {
		t.Fatalf("prompt must embed the source material")
	}
}

func TestBuildCoursePrompt_Defaults(t *testing.T) {
	a := &model.Artifact{Kind: model.KindCourse, SourceInput: "Go concurrency"}
	prompt := buildCoursePrompt(a)
	if !strings.Contains(prompt, "around 5") {
		t.Fatalf("expected default of 5 modules, got: %s", prompt)
	}

	a.GenerationParams = json.RawMessage(`{"num_modules": 8}`)
	if !strings.Contains(buildCoursePrompt(a), "around 8") {
		t.Fatalf("expected 8 modules")
	}
}

func TestBuildQuizPrompt_EmbedsTopicAndLevel(t *testing.T) {
	a := &model.Artifact{Kind: model.KindQuiz, SourceInput: "Photosynthesis", Level: "expert"}
	prompt := buildQuizPrompt(a)
	if !strings.Contains(prompt, `Topic: "Photosynthesis"`) {
		t.Fatalf("prompt missing topic: %s", prompt)
	}
	if !strings.Contains(prompt, `Difficulty Level: "expert"`) {
		t.Fatalf("prompt missing level: %s", prompt)
	}
	if !strings.Contains(prompt, "exactly 10 questions") {
		t.Fatalf("quiz length is fixed at 10 questions")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := stripCodeFence(c.in); got != c.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRequeueStale_ReprocessesOldPending(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewArtifactRepository(db)
	ai := &stubCompleter{text: validExamJSON}
	svc := NewGenerationService(repo, ai, nil)

	stale := createArtifact(t, repo, model.KindExam, "")
	if err := db.Model(stale).Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	fresh := createArtifact(t, repo, model.KindExam, "")

	if err := svc.RequeueStale(context.Background(), 30*time.Minute); err != nil {
		t.Fatalf("requeue: %v", err)
	}

	gotStale, _ := repo.FindByID(stale.ID)
	if gotStale.Status != model.StatusCompleted {
		t.Fatalf("stale record not reprocessed, status %q", gotStale.Status)
	}
	gotFresh, _ := repo.FindByID(fresh.ID)
	if gotFresh.Status != model.StatusPending {
		t.Fatalf("fresh record must stay pending, status %q", gotFresh.Status)
	}
	if ai.callCount() != 1 {
		t.Fatalf("expected one AI call, got %d", ai.callCount())
	}
}
