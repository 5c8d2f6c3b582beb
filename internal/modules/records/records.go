// Package records turns a user's recent notes into a two-line learning summary.
package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/notes"
	"go.uber.org/zap"
)

const (
	labelProgress = "最近の進捗:"
	labelWeak     = "弱点分野:"

	maxPromptBodyRunes = 500
	pageSeparator      = "\n\n---\n\n"
)

// Summary is always well-formed; fields hold sentinel text when nothing could be derived.
type Summary struct {
	RecentProgress string `json:"recent_progress" yaml:"recent_progress"`
	WeakAreas      string `json:"weak_areas" yaml:"weak_areas"`
}

func sentinelPair(s string) Summary {
	return Summary{RecentProgress: s, WeakAreas: s}
}

// NotesSource lists and reads pages of a notes project.
type NotesSource interface {
	RecentPages(ctx context.Context, project string, days int) []notes.Page
	PageText(ctx context.Context, project, title string) string
}

// ProjectResolver maps a user id to the user's notes project.
type ProjectResolver interface {
	NotesProject(ctx context.Context, userID string) (string, error)
}

type Orchestrator struct {
	notes      NotesSource
	generator  llm.Generator
	resolver   ProjectResolver
	windowDays int
	maxPages   int
	log        *zap.Logger
}

func NewOrchestrator(src NotesSource, gen llm.Generator, resolver ProjectResolver, cfg config.NotesConfig, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		notes:      src,
		generator:  gen,
		resolver:   resolver,
		windowDays: cfg.WindowDays,
		maxPages:   cfg.MaxPages,
		log:        log.Named("records"),
	}
	if o.windowDays <= 0 {
		o.windowDays = 90
	}
	if o.maxPages <= 0 {
		o.maxPages = 10
	}
	return o
}

// GetLearningRecords summarises the newest pages of project. It never fails.
// userID is only used for log context.
func (o *Orchestrator) GetLearningRecords(ctx context.Context, project, userID string) Summary {
	log := o.log.With(zap.String("project", project), zap.String("user_id", userID))
	if strings.TrimSpace(project) == "" {
		return sentinelPair(SentinelProjectNotConfigured)
	}

	pages := o.fetchPages(ctx, project)
	if len(pages) == 0 {
		log.Info("no recent pages")
		return sentinelPair(SentinelNoRecentRecords)
	}

	if o.generator != nil {
		if s, ok := o.analyzeWithModel(ctx, pages, log); ok {
			return s
		}
	}
	log.Info("falling back to keyword analysis", zap.Int("pages", len(pages)))
	return Analyze(pages).Summary
}

// GetLearningRecordsForUser resolves the user's project first; a failed lookup counts as no project.
func (o *Orchestrator) GetLearningRecordsForUser(ctx context.Context, userID string) (string, Summary) {
	if o.resolver == nil {
		return "", sentinelPair(SentinelProjectNotConfigured)
	}
	project, err := o.resolver.NotesProject(ctx, userID)
	if err != nil {
		o.log.Warn("project lookup failed", zap.String("user_id", userID), zap.Error(err))
		project = ""
	}
	return project, o.GetLearningRecords(ctx, project, userID)
}

func (o *Orchestrator) fetchPages(ctx context.Context, project string) []NotePage {
	recent := o.notes.RecentPages(ctx, project, o.windowDays)
	if len(recent) > o.maxPages {
		recent = recent[:o.maxPages]
	}
	pages := make([]NotePage, 0, len(recent))
	for _, p := range recent {
		body := o.notes.PageText(ctx, project, p.Title)
		if body == "" {
			continue
		}
		pages = append(pages, NotePage{Title: p.Title, Body: body, UpdatedAt: p.Updated})
	}
	return pages
}

func (o *Orchestrator) analyzeWithModel(ctx context.Context, pages []NotePage, log *zap.Logger) (Summary, bool) {
	reply, err := o.generator.Generate(ctx, buildAnalysisPrompt(pages), "")
	if err != nil {
		log.Warn("generative analysis failed", zap.Error(err))
		return Summary{}, false
	}
	s, ok := parseAnalysis(reply)
	if !ok {
		log.Warn("generative analysis reply missing labels")
	}
	return s, ok
}

func buildAnalysisPrompt(pages []NotePage) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		date := "不明"
		if p.UpdatedAt != 0 {
			date = time.Unix(p.UpdatedAt, 0).Format("2006-01-02")
		}
		parts = append(parts, fmt.Sprintf("【%s】(%s)\n%s", p.Title, date, truncateRunes(p.Body, maxPromptBodyRunes)))
	}
	return fmt.Sprintf(analysisPrompt, strings.Join(parts, pageSeparator))
}

// parseAnalysis reads the two labelled lines. Both must be present and non-empty.
func parseAnalysis(reply string) (Summary, bool) {
	var s Summary
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelProgress):
			s.RecentProgress = strings.TrimSpace(strings.TrimPrefix(line, labelProgress))
		case strings.HasPrefix(line, labelWeak):
			s.WeakAreas = strings.TrimSpace(strings.TrimPrefix(line, labelWeak))
		}
	}
	return s, s.RecentProgress != "" && s.WeakAreas != ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

const analysisPrompt = `
以下はScrapboxの学習記録です。これらの記録を分析して、以下の2つの情報を抽出してください：

1. **最近の進捗**: 最近の学習活動、達成した内容、進んでいる分野を簡潔にまとめてください
2. **弱点・課題分野**: 困っていること、苦手分野、エラーや問題、未解決の課題を特定してください

## Scrapboxの記録:
%s

## 出力形式:
最近の進捗: [具体的な学習活動や達成内容]
弱点分野: [課題や困りごと、苦手分野をカンマ区切り]

注意：
- 日本語の表現や文脈を理解して分析してください
- データがない場合は適切なメッセージを返してください
`
