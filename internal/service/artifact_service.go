package service

import (
	"context"
	"encoding/json"
	"studyforge_backend/internal/config"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/repository"
	"studyforge_backend/pkg/logger"

	"go.uber.org/zap"
)

// GenerationWorker is what the artifact service needs when internal dispatch
// is enabled: a way to hand a freshly inserted record to the state machine.
type GenerationWorker interface {
	Process(ctx context.Context, id uint) error
}

type ArtifactService struct {
	artifacts *repository.ArtifactRepository
	publisher realtime.Publisher
	cfg       *config.Config
	worker    GenerationWorker // nil when dispatch is webhook-only
}

func NewArtifactService(artifacts *repository.ArtifactRepository, publisher realtime.Publisher, cfg *config.Config) *ArtifactService {
	return &ArtifactService{
		artifacts: artifacts,
		publisher: publisher,
		cfg:       cfg,
	}
}

// EnableInternalDispatch hands Create a worker to invoke directly instead of
// waiting for an external webhook. The generation.internal_dispatch flag is
// consulted per create, so a config reload toggles the path without a
// restart. Both paths may be active at once; the worker's conditional claim
// dedupes.
func (s *ArtifactService) EnableInternalDispatch(worker GenerationWorker) {
	s.worker = worker
}

// Create inserts a new artifact. The lifecycle fields are forced regardless
// of input: every record starts pending with no content and no error.
func (s *ArtifactService) Create(ownerID uint, kind model.ArtifactKind, title, sourceInput, level string, params map[string]any) (*model.Artifact, error) {
	var rawParams json.RawMessage
	if len(params) > 0 {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		rawParams = data
	}

	a := &model.Artifact{
		OwnerID:          ownerID,
		Kind:             kind,
		Title:            title,
		SourceInput:      sourceInput,
		Level:            level,
		GenerationParams: rawParams,
		Status:           model.StatusPending,
	}

	if err := s.artifacts.Create(a); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		rec := *a
		s.publisher.PublishArtifact(realtime.ArtifactEvent{
			Type:   realtime.EventInsert,
			Kind:   kind,
			Record: &rec,
		})
	}

	if s.worker != nil && s.cfg.InternalDispatchEnabled() {
		go func(id uint) {
			if err := s.worker.Process(context.Background(), id); err != nil {
				logger.Log.Error("internal dispatch failed", zap.Uint("artifactId", id), zap.Error(err))
			}
		}(a.ID)
	}

	return a, nil
}

func (s *ArtifactService) List(ownerID uint, kind model.ArtifactKind) ([]model.Artifact, error) {
	return s.artifacts.ListByOwner(ownerID, kind)
}

// Delete removes the caller's record. Deleting an absent record or one owned
// by someone else is indistinguishable from success, so the endpoint never
// leaks whether another user's record exists.
func (s *ArtifactService) Delete(id, ownerID uint) error {
	_, err := s.artifacts.DeleteOwned(id, ownerID)
	return err
}
