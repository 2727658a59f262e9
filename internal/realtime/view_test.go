package realtime

import (
	"testing"
	"time"

	"studyforge_backend/internal/model"
)

func artifactAt(id uint, createdAt time.Time, status model.ArtifactStatus) *model.Artifact {
	a := &model.Artifact{Status: status}
	a.ID = id
	a.CreatedAt = createdAt
	return a
}

func ids(v *View) []uint {
	var out []uint
	for _, r := range v.Records() {
		out = append(out, r.ID)
	}
	return out
}

func TestView_UpdateReplacesInPlace(t *testing.T) {
	base := time.Now()
	a := artifactAt(3, base, model.StatusPending)
	b := artifactAt(1, base.Add(-time.Minute), model.StatusCompleted)
	v := NewView([]*model.Artifact{a, b})

	updated := artifactAt(3, base, model.StatusCompleted)
	v.Apply(updated)

	got := ids(v)
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("update must keep ordering, got %v", got)
	}
	if v.Records()[0].Status != model.StatusCompleted {
		t.Fatalf("record not replaced: %+v", v.Records()[0])
	}
}

func TestView_InsertPrependsAndSorts(t *testing.T) {
	base := time.Now()
	a := artifactAt(3, base.Add(-time.Minute), model.StatusPending)
	b := artifactAt(1, base.Add(-2*time.Minute), model.StatusCompleted)
	v := NewView([]*model.Artifact{a, b})

	v.Apply(artifactAt(5, base, model.StatusPending))

	got := ids(v)
	if len(got) != 3 || got[0] != 5 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("expected [5 3 1], got %v", got)
	}
}

func TestView_OutOfOrderInsertSortsByCreation(t *testing.T) {
	base := time.Now()
	v := NewView([]*model.Artifact{
		artifactAt(2, base, model.StatusPending),
	})

	// A late-arriving event for an older record must slot in below.
	v.Apply(artifactAt(1, base.Add(-time.Hour), model.StatusCompleted))

	got := ids(v)
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("expected [2 1], got %v", got)
	}
}

func TestView_EqualTimestampsBreakOnHigherID(t *testing.T) {
	base := time.Now()
	v := NewView([]*model.Artifact{
		artifactAt(1, base, model.StatusPending),
		artifactAt(2, base, model.StatusPending),
	})

	got := ids(v)
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("ties must order by higher id first, got %v", got)
	}
}

func TestView_NoDuplicateIDs(t *testing.T) {
	base := time.Now()
	v := NewView(nil)
	v.Apply(artifactAt(1, base, model.StatusPending))
	v.Apply(artifactAt(1, base, model.StatusProcessing))
	v.Apply(artifactAt(1, base, model.StatusCompleted))

	if v.Len() != 1 {
		t.Fatalf("repeated events for one id must not duplicate, len %d", v.Len())
	}
	if v.Records()[0].Status != model.StatusCompleted {
		t.Fatalf("latest event must win, got %q", v.Records()[0].Status)
	}
}
