// ABOUTME: MCP resource implementations for the macros store.
// ABOUTME: Provides macros://today and macros://queue resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI = "macros://today"
	queueURI = "macros://queue"
)

func (s *Server) registerResources() {
	// macros://today - today's entries, totals, and targets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Macros",
		Description: "Food entries logged today with totals and profile targets",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// macros://queue - changes waiting to sync
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         queueURI,
		Name:        "Sync Queue",
		Description: "Pending outbox records that have not reached the remote store",
		MIMEType:    "application/json",
	}, s.handleQueueResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	date := models.Today()
	logs, err := s.repo.ReadLogs(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	result := map[string]interface{}{
		"date": date,
	}

	entries := make([]logView, 0, len(logs))
	var sum totals
	for _, e := range logs {
		entries = append(entries, newLogView(e))
		sum.Calories += e.Calories
		sum.Protein += e.Protein
		sum.Carbs += e.Carbs
		sum.Fats += e.Fats
	}
	result["entries"] = entries
	result["totals"] = sum

	profile, err := s.repo.ReadProfile(ctx)
	switch {
	case err == nil:
		result["targets"] = totals{
			Calories: profile.TargetCalories,
			Protein:  profile.TargetProtein,
			Carbs:    profile.TargetCarbs,
			Fats:     profile.TargetFats,
		}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	return jsonResource(todayURI, result)
}

type queueItem struct {
	ID         int64  `json:"id"`
	EntityType string `json:"entity_type"`
	Operation  string `json:"operation"`
	Target     string `json:"target"`
	Attempts   int    `json:"attempts"`
	LastError  string `json:"last_error,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func (s *Server) handleQueueResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.repo.ListOutbox(ctx, false, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	pending, err := s.repo.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending: %w", err)
	}

	items := make([]queueItem, 0, len(records))
	for _, r := range records {
		target := "?"
		if collection, id, err := r.Target(); err == nil {
			target = collection + "/" + id
		}
		items = append(items, queueItem{
			ID:         r.ID,
			EntityType: string(r.EntityType),
			Operation:  string(r.Operation),
			Target:     target,
			Attempts:   r.Attempts,
			LastError:  r.LastError,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}

	return jsonResource(queueURI, map[string]interface{}{
		"pending": pending,
		"records": items,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
