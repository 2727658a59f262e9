package repository

import (
	"encoding/json"
	"studyforge_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ArtifactRepository struct {
	DB *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) *ArtifactRepository {
	return &ArtifactRepository{DB: db}
}

func (r *ArtifactRepository) Create(a *model.Artifact) error {
	return r.DB.Create(a).Error
}

func (r *ArtifactRepository) FindByID(id uint) (*model.Artifact, error) {
	var a model.Artifact
	err := r.DB.First(&a, id).Error
	return &a, err
}

// ListByOwner returns the caller's artifacts of one kind, newest first.
func (r *ArtifactRepository) ListByOwner(ownerID uint, kind model.ArtifactKind) ([]model.Artifact, error) {
	var as []model.Artifact
	err := r.DB.Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("created_at desc, id desc").
		Find(&as).Error
	return as, err
}

// DeleteOwned removes a record only when both id and owner match. The caller
// cannot distinguish a foreign record from a missing one: both return zero
// rows affected.
func (r *ArtifactRepository) DeleteOwned(id, ownerID uint) (int64, error) {
	res := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Artifact{})
	return res.RowsAffected, res.Error
}

// ClaimForProcessing performs the atomic pending -> processing transition as
// a single conditional update. It returns false when the record was not in
// pending (already claimed, terminal, or deleted), which the worker treats
// as a no-op. This is the sole concurrency control for duplicate dispatch.
func (r *ArtifactRepository) ClaimForProcessing(id uint) (bool, error) {
	res := r.DB.Model(&model.Artifact{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Update("status", model.StatusProcessing)
	return res.RowsAffected > 0, res.Error
}

// MarkCompleted writes the terminal completed state. A record deleted while
// processing yields zero affected rows, which is deliberately not an error.
func (r *ArtifactRepository) MarkCompleted(id uint, content json.RawMessage) error {
	return r.DB.Model(&model.Artifact{}).
		Where("id = ? AND status = ?", id, model.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        model.StatusCompleted,
			"content":       content,
			"error_message": "",
		}).Error
}

// MarkFailed writes the terminal failed state with a user-facing message.
func (r *ArtifactRepository) MarkFailed(id uint, message string) error {
	return r.DB.Model(&model.Artifact{}).
		Where("id = ? AND status = ?", id, model.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        model.StatusFailed,
			"content":       nil,
			"error_message": message,
		}).Error
}

// ListStalePending returns pending records created before the cutoff, used
// by the background sweep to re-dispatch lost deliveries.
func (r *ArtifactRepository) ListStalePending(cutoff time.Time) ([]model.Artifact, error) {
	var as []model.Artifact
	err := r.DB.Where("status = ? AND created_at < ?", model.StatusPending, cutoff).
		Find(&as).Error
	return as, err
}
