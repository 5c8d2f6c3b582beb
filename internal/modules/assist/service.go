// Package assist serves the learning-assistant generation endpoints.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/prompts"
	"github.com/choiben-assist/ai-backend/internal/modules/records"
	"go.uber.org/zap"
)

// Placeholders used when an optional request field is absent.
const (
	defaultCurrentLevel   = "中級"
	defaultDifficulty     = "medium"
	defaultFocusAreas     = "指定なし"
	defaultRecentProgress = "データなし"
	defaultNone           = "特になし"
	defaultDailyGoal      = "効果的な学習"
	defaultTargetGoal     = "学習の改善"
)

var ErrUnknownQuickType = errors.New("invalid quick response type")

// RecordsSource produces learning-record summaries from notes.
type RecordsSource interface {
	GetLearningRecords(ctx context.Context, project, userID string) records.Summary
	GetLearningRecordsForUser(ctx context.Context, userID string) (string, records.Summary)
}

// ProjectStore updates a user's notes project.
type ProjectStore interface {
	UpdateNotesProject(ctx context.Context, userID, project string) error
}

type Service struct {
	gen     llm.Generator
	records RecordsSource
	store   ProjectStore
	log     *zap.Logger
}

func NewService(gen llm.Generator, rec RecordsSource, store ProjectStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, records: rec, store: store, log: log.Named("assist")}
}

type PlanInput struct {
	Goal          string
	TimeAvailable int
	CurrentLevel  string
	FocusAreas    []string
	Difficulty    string
}

type TodoInput struct {
	TimeAvailable  int
	RecentProgress string
	WeakAreas      []string
	DailyGoal      string
}

type AnalysisInput struct {
	Period          string
	LearningRecords string
	Goals           string
	ProgressRate    float64
}

type AdviceInput struct {
	CurrentIssues  string
	LearningStatus string
	Concerns       string
	TargetGoal     string
}

type GoalInput struct {
	DesiredOutcome     string
	Timeline           string
	CurrentLevel       string
	AvailableResources string
	Constraints        string
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

func (s *Service) generate(ctx context.Context, category prompts.Category, values map[string]string) (string, error) {
	system, user, err := prompts.RenderPair(category, values)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", category, err)
	}
	return s.gen.Generate(ctx, user, system)
}

func (s *Service) GeneratePlan(ctx context.Context, in PlanInput) (string, error) {
	return s.generate(ctx, prompts.CategoryPlan, map[string]string{
		"goal":           in.Goal,
		"time_available": strconv.Itoa(in.TimeAvailable),
		"current_level":  orDefault(in.CurrentLevel, defaultCurrentLevel),
		"focus_areas":    joinOr(in.FocusAreas, defaultFocusAreas),
		"difficulty":     orDefault(in.Difficulty, defaultDifficulty),
	})
}

func (s *Service) GenerateTodo(ctx context.Context, in TodoInput) (string, error) {
	return s.generate(ctx, prompts.CategoryTodo, map[string]string{
		"time_available":  strconv.Itoa(in.TimeAvailable),
		"recent_progress": orDefault(in.RecentProgress, defaultRecentProgress),
		"weak_areas":      joinOr(in.WeakAreas, defaultNone),
		"daily_goal":      orDefault(in.DailyGoal, defaultDailyGoal),
	})
}

func (s *Service) AnalyzeProgress(ctx context.Context, in AnalysisInput) (string, error) {
	return s.generate(ctx, prompts.CategoryAnalysis, map[string]string{
		"period":           in.Period,
		"learning_records": in.LearningRecords,
		"goals":            in.Goals,
		"progress_rate":    strconv.FormatFloat(in.ProgressRate, 'f', -1, 64),
	})
}

func (s *Service) GiveAdvice(ctx context.Context, in AdviceInput) (string, error) {
	return s.generate(ctx, prompts.CategoryAdvice, map[string]string{
		"current_issues":  in.CurrentIssues,
		"learning_status": in.LearningStatus,
		"concerns":        orDefault(in.Concerns, defaultNone),
		"target_goal":     orDefault(in.TargetGoal, defaultTargetGoal),
	})
}

func (s *Service) SetGoals(ctx context.Context, in GoalInput) (string, error) {
	return s.generate(ctx, prompts.CategoryGoal, map[string]string{
		"desired_outcome":     in.DesiredOutcome,
		"timeline":            in.Timeline,
		"current_level":       in.CurrentLevel,
		"available_resources": in.AvailableResources,
		"constraints":         orDefault(in.Constraints, defaultNone),
	})
}

// Quick sends one of the fixed quick prompts with no system text.
func (s *Service) Quick(ctx context.Context, kind string) (string, error) {
	slot := prompts.Slot(kind)
	if slot == prompts.SlotSystem || slot == prompts.SlotUser {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuickType, kind)
	}
	tpl, err := prompts.Get(prompts.CategoryQuick, slot)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuickType, kind)
	}
	return s.gen.Generate(ctx, tpl.Text(), "")
}

// NotesTodo builds a todo list from what the notes project says was done and what was hard.
func (s *Service) NotesTodo(ctx context.Context, project string, timeAvailable int, dailyGoal string) (string, records.Summary, error) {
	summary := s.records.GetLearningRecords(ctx, project, "")
	out, err := s.GenerateTodo(ctx, TodoInput{
		TimeAvailable:  timeAvailable,
		RecentProgress: summary.RecentProgress,
		WeakAreas:      []string{summary.WeakAreas},
		DailyGoal:      dailyGoal,
	})
	return out, summary, err
}

func (s *Service) LearningRecords(ctx context.Context, project string) records.Summary {
	return s.records.GetLearningRecords(ctx, project, "")
}

func (s *Service) UserLearningRecords(ctx context.Context, userID string) (string, records.Summary) {
	return s.records.GetLearningRecordsForUser(ctx, userID)
}

func (s *Service) UpdateUserProject(ctx context.Context, userID, project string) error {
	return s.store.UpdateNotesProject(ctx, userID, project)
}
