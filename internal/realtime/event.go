package realtime

import "studyforge_backend/internal/model"

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
)

// ArtifactEvent is pushed to the owning user whenever an artifact row is
// created or changes status. Clients reconcile it into their local view
// without refetching.
type ArtifactEvent struct {
	Type   EventType          `json:"type"`
	Kind   model.ArtifactKind `json:"kind"`
	Record *model.Artifact    `json:"record"`
}

// Publisher decouples services from the hub; tests swap in a recorder.
type Publisher interface {
	PublishArtifact(ev ArtifactEvent)
}
