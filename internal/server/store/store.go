// Package store persists the whole user document as one unit. Every Save
// overwrites the durable copy with a full serialization; there are no
// incremental writes.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
)

// Store loads and saves the full snapshot.
//
// Load returns an empty snapshot (and persists it) when no durable copy
// exists yet. Errors from either method wrap common.ErrorPersistence.
type Store interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, s *models.Snapshot) error
}

// Encode renders the snapshot as indented UTF-8 JSON.
func Encode(s *models.Snapshot) ([]byte, error) {
	if s == nil {
		s = models.NewSnapshot()
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, persistenceError("encode", err)
	}
	return b, nil
}

// Decode parses a stored document. An empty document is an empty snapshot.
func Decode(data []byte) (*models.Snapshot, error) {
	s := models.NewSnapshot()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, persistenceError("decode", err)
	}
	s.Normalize()
	return s, nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrorPersistence, op, err)
}

// initialize persists an empty snapshot for a first start.
func initialize(ctx context.Context, st Store) (*models.Snapshot, error) {
	s := models.NewSnapshot()
	if err := st.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
