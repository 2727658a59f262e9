package realtime

import (
	"sort"
	"studyforge_backend/internal/model"
)

// View is a client-side ordered collection of one user's artifacts, newest
// first. Apply keeps it consistent from the event feed alone: an event for a
// known id replaces the record in place, an unknown id is prepended, and the
// whole list is re-sorted by creation time. No full refetch is ever needed
// and ids never duplicate. The re-sort is O(n log n) per event, fine at the
// list sizes a single user accumulates.
//
// Event handling is single-threaded per session, so View does no locking.
type View struct {
	records []*model.Artifact
}

func NewView(initial []*model.Artifact) *View {
	v := &View{records: make([]*model.Artifact, len(initial))}
	copy(v.records, initial)
	v.resort()
	return v
}

// Apply reconciles one insert/update event into the view.
func (v *View) Apply(rec *model.Artifact) {
	if rec == nil {
		return
	}
	for i, existing := range v.records {
		if existing.ID == rec.ID {
			v.records[i] = rec
			return
		}
	}
	v.records = append([]*model.Artifact{rec}, v.records...)
	v.resort()
}

// Records returns the current ordering. Callers must not mutate it.
func (v *View) Records() []*model.Artifact {
	return v.records
}

func (v *View) Len() int {
	return len(v.records)
}

func (v *View) resort() {
	sort.SliceStable(v.records, func(i, j int) bool {
		ti, tj := v.records[i].CreatedAt, v.records[j].CreatedAt
		if ti.Equal(tj) {
			return v.records[i].ID > v.records[j].ID
		}
		return ti.After(tj)
	})
}
