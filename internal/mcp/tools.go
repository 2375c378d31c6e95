// ABOUTME: MCP tool implementations for the macros store.
// ABOUTME: Exposes food log, profile, body stat, template, and sync operations.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_log",
		Description: "Log a food entry with its macros for a day",
	}, s.handleAddLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_logs",
		Description: "List food entries for a day with daily totals",
	}, s.handleListLogs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_log",
		Description: "Delete a food entry by ID",
	}, s.handleDeleteLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_day",
		Description: "Delete every food entry of a day",
	}, s.handleClearDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile",
		Description: "Replace the user profile and macro targets",
	}, s.handleUpdateProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the user profile and macro targets",
	}, s.handleGetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_body_stat",
		Description: "Record a weigh-in",
	}, s.handleAddBodyStat)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_body_stats",
		Description: "List weigh-ins, oldest first",
	}, s.handleListBodyStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_template",
		Description: "Save an existing food entry as a reusable meal template",
	}, s.handleSaveTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List saved meal templates",
	}, s.handleListTemplates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "use_template",
		Description: "Log a new food entry from a saved meal template",
	}, s.handleUseTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_template",
		Description: "Delete a meal template by ID",
	}, s.handleDeleteTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "sync_now",
		Description: "Push pending changes to the remote store",
	}, s.handleSyncNow)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "sync_status",
		Description: "Show how many changes are waiting to sync",
	}, s.handleSyncStatus)
}

// Tool input/output types

type addLogInput struct {
	Name           string  `json:"name" jsonschema:"Food name"`
	Date           string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD or a phrase like yesterday, defaults to today"`
	Amount         string  `json:"amount,omitempty" jsonschema:"Free-text amount, e.g. 1 cup"`
	Calories       float64 `json:"calories,omitempty" jsonschema:"Calories (kcal)"`
	Protein        float64 `json:"protein,omitempty" jsonschema:"Protein in grams"`
	Carbs          float64 `json:"carbs,omitempty" jsonschema:"Carbohydrates in grams"`
	Fats           float64 `json:"fats,omitempty" jsonschema:"Fat in grams"`
	Fiber          float64 `json:"fiber,omitempty" jsonschema:"Fiber in grams"`
	Sugar          float64 `json:"sugar,omitempty" jsonschema:"Sugar in grams"`
	Sodium         float64 `json:"sodium,omitempty" jsonschema:"Sodium in milligrams"`
	Micronutrients string  `json:"micronutrients,omitempty" jsonschema:"Free-text micronutrient notes"`
	Notes          string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type logOutput struct {
	ID      int64  `json:"id"`
	UID     string `json:"uid"`
	Message string `json:"message"`
}

type dayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD or a phrase like yesterday, defaults to today"`
}

type totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type logView struct {
	ID       int64   `json:"id"`
	UID      string  `json:"uid"`
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	Amount   string  `json:"amount,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber,omitempty"`
	Sugar    float64 `json:"sugar,omitempty"`
	Sodium   float64 `json:"sodium,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

func newLogView(e *models.FoodLogEntry) logView {
	return logView{
		ID:       e.ID,
		UID:      e.UID,
		Date:     e.Date,
		Name:     e.Name,
		Amount:   e.Source,
		Calories: e.Calories,
		Protein:  e.Protein,
		Carbs:    e.Carbs,
		Fats:     e.Fats,
		Fiber:    e.Fiber,
		Sugar:    e.Sugar,
		Sodium:   e.Sodium,
		Notes:    e.Notes,
	}
}

type listLogsOutput struct {
	Date    string    `json:"date"`
	Entries []logView `json:"entries"`
	Totals  totals    `json:"totals"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Local numeric ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type profileInput struct {
	HeightCm       float64 `json:"height_cm,omitempty" jsonschema:"Height in centimeters"`
	WeightKg       float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kilograms"`
	BodyFatPct     float64 `json:"bf_percent,omitempty" jsonschema:"Body fat percentage"`
	ActivityLevel  string  `json:"activity_level,omitempty" jsonschema:"Sedentary, Lightly Active, Moderately Active, or Very Active"`
	Goal           string  `json:"goal,omitempty" jsonschema:"Goal, e.g. lose fat or build muscle"`
	DietPreference string  `json:"diet_preference,omitempty" jsonschema:"Diet preference, e.g. vegetarian"`
	TargetCalories float64 `json:"target_calories,omitempty" jsonschema:"Daily calorie target"`
	TargetProtein  float64 `json:"target_protein,omitempty" jsonschema:"Daily protein target in grams"`
	TargetCarbs    float64 `json:"target_carbs,omitempty" jsonschema:"Daily carb target in grams"`
	TargetFats     float64 `json:"target_fats,omitempty" jsonschema:"Daily fat target in grams"`
}

type profileView struct {
	HeightCm       float64 `json:"height_cm"`
	WeightKg       float64 `json:"weight_kg"`
	BodyFatPct     float64 `json:"bf_percent"`
	ActivityLevel  string  `json:"activity_level"`
	Goal           string  `json:"goal"`
	DietPreference string  `json:"diet_preference"`
	TargetCalories float64 `json:"target_calories"`
	TargetProtein  float64 `json:"target_protein"`
	TargetCarbs    float64 `json:"target_carbs"`
	TargetFats     float64 `json:"target_fats"`
	UpdatedAt      string  `json:"updated_at"`
}

func newProfileView(p *models.UserProfile) *profileView {
	return &profileView{
		HeightCm:       p.HeightCm,
		WeightKg:       p.WeightKg,
		BodyFatPct:     p.BodyFatPct,
		ActivityLevel:  p.ActivityLevel,
		Goal:           p.Goal,
		DietPreference: p.DietPreference,
		TargetCalories: p.TargetCalories,
		TargetProtein:  p.TargetProtein,
		TargetCarbs:    p.TargetCarbs,
		TargetFats:     p.TargetFats,
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}

type profileOutput struct {
	Profile *profileView `json:"profile,omitempty"`
	Message string       `json:"message"`
}

type addBodyStatInput struct {
	WeightKg   float64 `json:"weight_kg" jsonschema:"Weight in kilograms"`
	BodyFatPct float64 `json:"bf_percent,omitempty" jsonschema:"Body fat percentage"`
	Date       string  `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD or a phrase like yesterday, defaults to today"`
}

type bodyStatView struct {
	ID         int64   `json:"id"`
	UID        string  `json:"uid"`
	Date       string  `json:"date"`
	WeightKg   float64 `json:"weight_kg"`
	BodyFatPct float64 `json:"bf_percent"`
}

type listBodyStatsOutput struct {
	Stats []bodyStatView `json:"stats"`
}

type saveTemplateInput struct {
	LogID int64  `json:"log_id" jsonschema:"ID of the food entry to snapshot"`
	Name  string `json:"name" jsonschema:"Template name"`
}

type templateView struct {
	ID       int64   `json:"id"`
	UID      string  `json:"uid"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type listTemplatesOutput struct {
	Templates []templateView `json:"templates"`
}

type useTemplateInput struct {
	Name string `json:"name" jsonschema:"Template name"`
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD or a phrase like yesterday, defaults to today"`
}

type syncOutput struct {
	Synced   int    `json:"synced"`
	Failed   int    `json:"failed"`
	Deferred int    `json:"deferred"`
	Offline  bool   `json:"offline"`
	Pending  int    `json:"pending"`
	Message  string `json:"message"`
}

type syncStatusOutput struct {
	Pending          int  `json:"pending"`
	RemoteConfigured bool `json:"remote_configured"`
}

func resolveDate(date string) (string, error) {
	return models.ResolveDate(date, time.Now())
}

// Tool handlers

func (s *Server) handleAddLog(ctx context.Context, req *mcp.CallToolRequest, input addLogInput) (*mcp.CallToolResult, logOutput, error) {
	if input.Name == "" {
		return nil, logOutput{}, fmt.Errorf("name is required")
	}
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, logOutput{}, err
	}

	e := models.NewFoodLogEntry(date, input.Name)
	e.Source = input.Amount
	e.Calories = input.Calories
	e.Protein = input.Protein
	e.Carbs = input.Carbs
	e.Fats = input.Fats
	e.Fiber = input.Fiber
	e.Sugar = input.Sugar
	e.Sodium = input.Sodium
	e.Micronutrients = input.Micronutrients
	e.Notes = input.Notes

	if err := s.repo.AddLog(ctx, e); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to add log: %w", err)
	}

	return nil, logOutput{
		ID:      e.ID,
		UID:     e.UID,
		Message: fmt.Sprintf("Logged %s on %s: %.0f kcal (ID: %d)", e.Name, e.Date, e.Calories, e.ID),
	}, nil
}

func (s *Server) handleListLogs(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, listLogsOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, listLogsOutput{}, err
	}

	logs, err := s.repo.ReadLogs(ctx, date)
	if err != nil {
		return nil, listLogsOutput{}, fmt.Errorf("failed to list logs: %w", err)
	}

	out := listLogsOutput{Date: date, Entries: make([]logView, 0, len(logs))}
	for _, e := range logs {
		out.Entries = append(out.Entries, newLogView(e))
		out.Totals.Calories += e.Calories
		out.Totals.Protein += e.Protein
		out.Totals.Carbs += e.Carbs
		out.Totals.Fats += e.Fats
	}
	return nil, out, nil
}

func (s *Server) handleDeleteLog(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteLog(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete log: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted log: %d", input.ID)}, nil
}

func (s *Server) handleClearDay(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	n, err := s.repo.DeleteLogsForDate(ctx, date)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to clear day: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %d entries from %s", n, date)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, req *mcp.CallToolRequest, input profileInput) (*mcp.CallToolResult, profileOutput, error) {
	if input.ActivityLevel != "" && !models.IsValidActivityLevel(input.ActivityLevel) {
		return nil, profileOutput{}, fmt.Errorf("unknown activity level: %s", input.ActivityLevel)
	}

	p := &models.UserProfile{
		HeightCm:       input.HeightCm,
		WeightKg:       input.WeightKg,
		BodyFatPct:     input.BodyFatPct,
		ActivityLevel:  input.ActivityLevel,
		Goal:           input.Goal,
		DietPreference: input.DietPreference,
		TargetCalories: input.TargetCalories,
		TargetProtein:  input.TargetProtein,
		TargetCarbs:    input.TargetCarbs,
		TargetFats:     input.TargetFats,
	}
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return nil, profileOutput{Profile: newProfileView(p), Message: "Profile updated"}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, profileOutput, error) {
	p, err := s.repo.ReadProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, profileOutput{Message: "No profile set."}, nil
	}
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return nil, profileOutput{Profile: newProfileView(p), Message: "ok"}, nil
}

func (s *Server) handleAddBodyStat(ctx context.Context, req *mcp.CallToolRequest, input addBodyStatInput) (*mcp.CallToolResult, logOutput, error) {
	if input.WeightKg <= 0 {
		return nil, logOutput{}, fmt.Errorf("weight_kg must be positive")
	}
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, logOutput{}, err
	}

	stat := models.NewBodyStatEntry(date, input.WeightKg, input.BodyFatPct)
	if err := s.repo.AddBodyStat(ctx, stat); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to add body stat: %w", err)
	}
	return nil, logOutput{
		ID:      stat.ID,
		UID:     stat.UID,
		Message: fmt.Sprintf("Recorded %.1f kg on %s (ID: %d)", stat.WeightKg, stat.Date, stat.ID),
	}, nil
}

func (s *Server) handleListBodyStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, listBodyStatsOutput, error) {
	stats, err := s.repo.ReadBodyStats(ctx)
	if err != nil {
		return nil, listBodyStatsOutput{}, fmt.Errorf("failed to list body stats: %w", err)
	}

	out := listBodyStatsOutput{Stats: make([]bodyStatView, 0, len(stats))}
	for _, st := range stats {
		out.Stats = append(out.Stats, bodyStatView{
			ID:         st.ID,
			UID:        st.UID,
			Date:       st.Date,
			WeightKg:   st.WeightKg,
			BodyFatPct: st.BodyFatPct,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSaveTemplate(ctx context.Context, req *mcp.CallToolRequest, input saveTemplateInput) (*mcp.CallToolResult, logOutput, error) {
	e, err := s.repo.GetLog(ctx, input.LogID)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to find log: %w", err)
	}

	tmpl, err := models.NewTemplateFromLog(input.Name, e)
	if err != nil {
		return nil, logOutput{}, err
	}
	if err := s.repo.SaveTemplate(ctx, tmpl); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to save template: %w", err)
	}
	return nil, logOutput{
		ID:      tmpl.ID,
		UID:     tmpl.UID,
		Message: fmt.Sprintf("Saved template %s (ID: %d)", tmpl.Name, tmpl.ID),
	}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, listTemplatesOutput, error) {
	templates, err := s.repo.ReadTemplates(ctx)
	if err != nil {
		return nil, listTemplatesOutput{}, fmt.Errorf("failed to list templates: %w", err)
	}

	out := listTemplatesOutput{Templates: make([]templateView, 0, len(templates))}
	for _, t := range templates {
		out.Templates = append(out.Templates, templateView{
			ID:       t.ID,
			UID:      t.UID,
			Name:     t.Name,
			Calories: t.Calories,
			Protein:  t.Protein,
		})
	}
	return nil, out, nil
}

func (s *Server) handleUseTemplate(ctx context.Context, req *mcp.CallToolRequest, input useTemplateInput) (*mcp.CallToolResult, logOutput, error) {
	date, err := resolveDate(input.Date)
	if err != nil {
		return nil, logOutput{}, err
	}

	tmpl, err := s.repo.FindTemplate(ctx, input.Name)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to find template: %w", err)
	}
	e, err := tmpl.NewLogEntry(date)
	if err != nil {
		return nil, logOutput{}, err
	}
	if err := s.repo.AddLog(ctx, e); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to add log: %w", err)
	}
	return nil, logOutput{
		ID:      e.ID,
		UID:     e.UID,
		Message: fmt.Sprintf("Logged %s on %s from template %s (ID: %d)", e.Name, e.Date, tmpl.Name, e.ID),
	}, nil
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteTemplate(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete template: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted template: %d", input.ID)}, nil
}

func (s *Server) handleSyncNow(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, syncOutput, error) {
	summary, err := s.syncer.Run(ctx)
	if err != nil {
		return nil, syncOutput{}, fmt.Errorf("sync failed: %w", err)
	}
	status, err := s.syncer.Status(ctx)
	if err != nil {
		return nil, syncOutput{}, fmt.Errorf("read sync status: %w", err)
	}

	out := syncOutput{
		Synced:   summary.Synced,
		Failed:   summary.Failed,
		Deferred: summary.Deferred,
		Offline:  summary.Offline,
		Pending:  status.Pending,
	}
	if summary.Offline {
		out.Message = fmt.Sprintf("Remote unavailable; %d changes still pending", status.Pending)
	} else {
		out.Message = fmt.Sprintf("Synced %d, failed %d, deferred %d; %d pending", summary.Synced, summary.Failed, summary.Deferred, status.Pending)
	}
	return nil, out, nil
}

func (s *Server) handleSyncStatus(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, syncStatusOutput, error) {
	status, err := s.syncer.Status(ctx)
	if err != nil {
		return nil, syncStatusOutput{}, fmt.Errorf("read sync status: %w", err)
	}
	return nil, syncStatusOutput{Pending: status.Pending, RemoteConfigured: status.RemoteConfigured}, nil
}
