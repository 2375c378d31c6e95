// ABOUTME: Requeues every local entity for sync against an empty remote.
// ABOUTME: Used after switching backends; replay is idempotent so extra records are harmless.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/macros/internal/models"
)

// ReseedSummary holds counts of requeued entities.
type ReseedSummary struct {
	Profile   bool
	FoodLogs  int
	BodyStats int
	Templates int
}

// Total returns the number of outbox records appended.
func (s *ReseedSummary) Total() int {
	n := s.FoodLogs + s.BodyStats + s.Templates
	if s.Profile {
		n++
	}
	return n
}

// Reseed appends an UPDATE record for every entity currently in the local
// store, in one transaction. Each record carries the full document, so the
// next sync pass rebuilds the remote from local state.
func (d *DB) Reseed(ctx context.Context) (*ReseedSummary, error) {
	profile, err := d.ReadProfile(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	logs, err := d.ReadLogsSince(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("reseed: %w", err)
	}
	stats, err := d.ReadBodyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reseed: %w", err)
	}
	templates, err := d.ReadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("reseed: %w", err)
	}

	summary := &ReseedSummary{}
	err = d.withTx(ctx, func(tx *sql.Tx) error {
		if profile != nil {
			if _, err := enqueueTx(ctx, tx, models.EntityProfile, models.OpUpdate, profile); err != nil {
				return err
			}
			summary.Profile = true
		}
		for _, e := range logs {
			if _, err := enqueueTx(ctx, tx, models.EntityFoodLog, models.OpUpdate, e); err != nil {
				return fmt.Errorf("food log %s: %w", e.UID, err)
			}
			summary.FoodLogs++
		}
		for _, s := range stats {
			if _, err := enqueueTx(ctx, tx, models.EntityBodyStat, models.OpUpdate, s); err != nil {
				return fmt.Errorf("body stat %s: %w", s.UID, err)
			}
			summary.BodyStats++
		}
		for _, t := range templates {
			if _, err := enqueueTx(ctx, tx, models.EntityTemplate, models.OpUpdate, t); err != nil {
				return fmt.Errorf("template %s: %w", t.UID, err)
			}
			summary.Templates++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reseed: %w", err)
	}
	return summary, nil
}
