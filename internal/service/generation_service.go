package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/repository"
	"studyforge_backend/pkg/logger"
	"studyforge_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultExamQuestions = 10
	defaultCourseModules = 5

	quizFailureMessage = "Failed to generate quiz. The AI may have returned an invalid format. Please try again."
)

// contentPipeline captures everything kind-specific about generation, so a
// single state machine serves all three artifact kinds.
type contentPipeline struct {
	buildPrompt    func(a *model.Artifact) string
	parse          func(text string) (json.RawMessage, error)
	failureMessage func(err error) string
}

var pipelines = map[model.ArtifactKind]contentPipeline{
	model.KindExam: {
		buildPrompt:    buildExamPrompt,
		parse:          parseExamContent,
		failureMessage: func(err error) string { return err.Error() },
	},
	model.KindCourse: {
		buildPrompt:    buildCoursePrompt,
		parse:          parseCourseContent,
		failureMessage: func(err error) string { return err.Error() },
	},
	model.KindQuiz: {
		buildPrompt: buildQuizPrompt,
		parse:       parseQuizContent,
		// End users see quiz failures inside the game UI; keep the message
		// friendly instead of surfacing provider internals.
		failureMessage: func(error) string { return quizFailureMessage },
	},
}

// GenerationService drives an artifact through its lifecycle:
// pending -> processing -> completed|failed. It is safe to invoke
// concurrently and repeatedly for the same record; only the invocation that
// wins the conditional pending->processing update does any work, so
// at-least-once dispatch becomes effectively-once processing.
type GenerationService struct {
	artifacts *repository.ArtifactRepository
	ai        TextCompleter
	publisher realtime.Publisher
}

func NewGenerationService(artifacts *repository.ArtifactRepository, ai TextCompleter, publisher realtime.Publisher) *GenerationService {
	return &GenerationService{
		artifacts: artifacts,
		ai:        ai,
		publisher: publisher,
	}
}

// Process handles one dispatch delivery for the given artifact id.
//
// Failures of the AI call or of parsing its output are terminal for the
// record, not for the request: they are written into the failed state and
// Process still returns nil. A non-nil error means the store itself was
// unreachable and the delivery may be redelivered later.
func (s *GenerationService) Process(ctx context.Context, id uint) error {
	claimed, err := s.artifacts.ClaimForProcessing(id)
	if err != nil {
		return err
	}
	if !claimed {
		// Duplicate delivery or already-terminal record.
		logger.Log.Debug("artifact not pending, skipping", zap.Uint("artifactId", id))
		return nil
	}

	a, err := s.artifacts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deleted in the window between the claim and this read. The
			// terminal update would hit zero rows anyway, so stop here.
			logger.Log.Debug("artifact deleted after claim, skipping", zap.Uint("artifactId", id))
			return nil
		}
		return err
	}
	a.Status = model.StatusProcessing
	s.publish(a)

	start := time.Now()

	pipeline, ok := pipelines[a.Kind]
	if !ok {
		s.fail(a, fmt.Sprintf("unsupported artifact kind %q", a.Kind))
		return nil
	}

	text, err := s.ai.Complete(ctx, pipeline.buildPrompt(a))
	if err != nil {
		logger.Log.Warn("AI completion failed",
			zap.Uint("artifactId", a.ID),
			zap.String("kind", string(a.Kind)),
			zap.Error(err))
		s.fail(a, pipeline.failureMessage(err))
		return nil
	}

	content, err := pipeline.parse(text)
	if err != nil {
		logger.Log.Warn("AI output rejected",
			zap.Uint("artifactId", a.ID),
			zap.String("kind", string(a.Kind)),
			zap.Error(err))
		s.fail(a, pipeline.failureMessage(err))
		return nil
	}

	if err := s.artifacts.MarkCompleted(a.ID, content); err != nil {
		return err
	}
	monitoring.GenerationCounter.WithLabelValues(string(a.Kind), "completed").Inc()
	monitoring.GenerationDuration.WithLabelValues(string(a.Kind)).Observe(time.Since(start).Seconds())

	a.Status = model.StatusCompleted
	a.Content = content
	a.ErrorMessage = ""
	s.publish(a)
	return nil
}

// RequeueStale re-dispatches records stuck in pending longer than maxAge,
// covering lost webhook deliveries. Redelivery is safe: Process claims
// records conditionally.
func (s *GenerationService) RequeueStale(ctx context.Context, maxAge time.Duration) error {
	stale, err := s.artifacts.ListStalePending(time.Now().Add(-maxAge))
	if err != nil {
		return err
	}
	for _, a := range stale {
		logger.Log.Info("requeueing stale pending artifact",
			zap.Uint("artifactId", a.ID),
			zap.String("kind", string(a.Kind)))
		if err := s.Process(ctx, a.ID); err != nil {
			logger.Log.Error("requeue processing failed", zap.Uint("artifactId", a.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *GenerationService) fail(a *model.Artifact, message string) {
	if err := s.artifacts.MarkFailed(a.ID, message); err != nil {
		logger.Log.Error("failed to mark artifact failed", zap.Uint("artifactId", a.ID), zap.Error(err))
		return
	}
	monitoring.GenerationCounter.WithLabelValues(string(a.Kind), "failed").Inc()

	a.Status = model.StatusFailed
	a.Content = nil
	a.ErrorMessage = message
	s.publish(a)
}

func (s *GenerationService) publish(a *model.Artifact) {
	if s.publisher == nil {
		return
	}
	// The hub marshals asynchronously; hand it a snapshot, not the struct
	// this worker keeps mutating.
	rec := *a
	s.publisher.PublishArtifact(realtime.ArtifactEvent{
		Type:   realtime.EventUpdate,
		Kind:   a.Kind,
		Record: &rec,
	})
}

func buildExamPrompt(a *model.Artifact) string {
	numQuestions := a.ParamInt("num_questions", defaultExamQuestions)
	return fmt.Sprintf(`You are an expert exam creator. Based on the following source material, create a multiple-choice exam.
The exam should have exactly %d questions.
Each question must have 4 options, with one correct answer.

Return the result as a single, valid JSON object. Do not include any text or markdown formatting before or after the JSON.
The JSON object should have a single key "questions", which is an array of objects.
Each object in the array should have the following structure:
{ "question": "The question text", "options": ["Option A", "Option B", "Option C", "Option D"], "answer": "The correct option text" }

Source Material:
---
%s
---`, numQuestions, a.SourceInput)
}

func buildCoursePrompt(a *model.Artifact) string {
	numModules := a.ParamInt("num_modules", defaultCourseModules)
	return fmt.Sprintf(`You are an expert curriculum designer. Based on the following topic, create a detailed course outline.
The outline should have a logical flow with modules and lessons.
The number of modules should be around %d.

Return the result as a single, valid JSON object. Do not include any text or markdown formatting before or after the JSON.
The JSON object should have a single key "modules", which is an array of objects.
Each module object should have a "title" (string) and a "lessons" (array of strings) key.
Example: { "modules": [ { "title": "Module 1: Introduction", "lessons": ["Lesson 1.1: What is...", "Lesson 1.2: Key Concepts"] } ] }

Topic:
---
%s
---`, numModules, a.SourceInput)
}

func buildQuizPrompt(a *model.Artifact) string {
	return fmt.Sprintf(`You are an expert in gamified learning. Based on the following topic and difficulty level, create a multiple-choice quiz.
The quiz should have exactly 10 questions.
Each question must have 4 options, with one correct answer.

For each question, provide:
1. The question text.
2. The array of 4 options.
3. The correct answer text.
4. A short, encouraging feedback message for a CORRECT answer (e.g., "Great job!").
5. A short, helpful feedback message for an INCORRECT answer (e.g., "Not quite!").
6. A detailed explanation of why the correct answer is right.

Return the result as a single, valid JSON object. Do not include any text or markdown formatting before or after the JSON.
The JSON object should have a single key "questions", which is an array of objects.
Each object in the array must have this exact structure:
{ "question": "...", "options": ["...", "...", "...", "..."], "answer": "...", "feedback_correct": "...", "feedback_incorrect": "...", "explanation": "..." }

Topic: "%s"
Difficulty Level: "%s"`, a.SourceInput, a.Level)
}

// stripCodeFence removes markdown fence wrappers some models add around JSON
// despite instructions not to.
func stripCodeFence(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func parseExamContent(text string) (json.RawMessage, error) {
	var content model.ExamContent
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &content); err != nil {
		return nil, fmt.Errorf("invalid exam JSON: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&content)
}

func parseCourseContent(text string) (json.RawMessage, error) {
	var content model.CourseContent
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &content); err != nil {
		return nil, fmt.Errorf("invalid course JSON: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&content)
}

func parseQuizContent(text string) (json.RawMessage, error) {
	var content model.QuizContent
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &content); err != nil {
		return nil, fmt.Errorf("invalid quiz JSON: %w", err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&content)
}
