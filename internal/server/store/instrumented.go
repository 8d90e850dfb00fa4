package store

import (
	"context"

	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

// SaveRecorder observes the outcome of every Save.
type SaveRecorder interface {
	RecordStoreSave(err error)
}

type instrumented struct {
	Store
	rec SaveRecorder
}

// WithMetrics reports each Save of st to rec.
func WithMetrics(st Store, rec SaveRecorder) Store {
	return instrumented{Store: st, rec: rec}
}

func (i instrumented) Save(ctx context.Context, s *models.Snapshot) error {
	err := i.Store.Save(ctx, s)
	i.rec.RecordStoreSave(err)
	return err
}
