// ABOUTME: OutboxRecord model for queued mutations awaiting remote sync.
// ABOUTME: Defines entity types, operations, and remote collection addressing.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityType names the repository an outbox record targets.
type EntityType string

const (
	EntityProfile  EntityType = "UserProfile"
	EntityFoodLog  EntityType = "FoodLogEntry"
	EntityBodyStat EntityType = "BodyStatEntry"
	EntityTemplate EntityType = "MealTemplate"
)

// Remote collection names.
const (
	CollectionProfile   = "profile"
	CollectionFoodLogs  = "food_logs"
	CollectionBodyStats = "body_stats"
	CollectionTemplates = "templates"
)

var entityCollections = map[EntityType]string{
	EntityProfile:  CollectionProfile,
	EntityFoodLog:  CollectionFoodLogs,
	EntityBodyStat: CollectionBodyStats,
	EntityTemplate: CollectionTemplates,
}

// Collection returns the remote collection for the entity type.
func (e EntityType) Collection() (string, bool) {
	c, ok := entityCollections[e]
	return c, ok
}

// Operation is the mutation kind carried by an outbox record.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// IsValid reports whether op is one of the known operations.
func (op Operation) IsValid() bool {
	switch op {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}

// DeletePayload is the only payload a DELETE record carries.
type DeletePayload struct {
	UID string `json:"uid"`
}

// OutboxRecord is one queued mutation. ID is the replay order.
type OutboxRecord struct {
	ID         int64
	EntityType EntityType
	Operation  Operation
	Payload    json.RawMessage
	Synced     bool
	CreatedAt  time.Time
	SyncedAt   *time.Time
	Attempts   int
	LastError  string
}

// Target resolves the remote (collection, document id) the record addresses.
// The profile is always addressed by ProfileUID; every other entity by the
// payload's uid.
func (r *OutboxRecord) Target() (collection, docID string, err error) {
	collection, ok := r.EntityType.Collection()
	if !ok {
		return "", "", fmt.Errorf("unknown entity type %q", r.EntityType)
	}
	if r.EntityType == EntityProfile {
		return collection, ProfileUID, nil
	}

	var p DeletePayload
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return "", "", fmt.Errorf("decode payload of outbox record %d: %w", r.ID, err)
	}
	if p.UID == "" {
		return "", "", fmt.Errorf("outbox record %d has no uid", r.ID)
	}
	return collection, p.UID, nil
}
