package model

import "encoding/json"

// ArtifactKind identifies which generator pipeline produced a record. All
// kinds share the artifacts table; the kind column selects the prompt and
// content schema.
type ArtifactKind string

const (
	KindExam   ArtifactKind = "exam"
	KindCourse ArtifactKind = "course"
	KindQuiz   ArtifactKind = "quiz"
)

// ArtifactStatus is the generation lifecycle state. Transitions are
// monotonic: pending -> processing -> completed|failed. Completed and failed
// are terminal.
type ArtifactStatus string

const (
	StatusPending    ArtifactStatus = "pending"
	StatusProcessing ArtifactStatus = "processing"
	StatusCompleted  ArtifactStatus = "completed"
	StatusFailed     ArtifactStatus = "failed"
)

// Artifact is a user-submitted generation request plus its eventual result.
// Content is populated iff status is completed; ErrorMessage iff failed.
// swagger:model Artifact
type Artifact struct {
	BaseModel
	OwnerID uint         `gorm:"index;not null" json:"ownerId"`
	Kind    ArtifactKind `gorm:"size:20;index;not null" json:"kind"`
	Title   string       `gorm:"size:255;not null" json:"title"`
	// SourceInput holds raw source text for exams and a topic string for
	// courses and quizzes.
	SourceInput      string          `gorm:"type:text" json:"sourceInput"`
	Level            string          `gorm:"size:20" json:"level,omitempty"` // quiz difficulty
	GenerationParams json.RawMessage `gorm:"type:json" json:"generationParams,omitempty"`
	Status           ArtifactStatus  `gorm:"size:20;index;default:'pending'" json:"status"`
	Content          json.RawMessage `gorm:"type:json" json:"content,omitempty"`
	ErrorMessage     string          `gorm:"type:text" json:"errorMessage,omitempty"`
}

func (Artifact) TableName() string {
	return "artifacts"
}

// ParamInt reads an integer generation parameter, falling back to def when
// the key is absent or not numeric.
func (a *Artifact) ParamInt(key string, def int) int {
	if len(a.GenerationParams) == 0 {
		return def
	}
	var params map[string]any
	if err := json.Unmarshal(a.GenerationParams, &params); err != nil {
		return def
	}
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case int:
		if n > 0 {
			return n
		}
	}
	return def
}
