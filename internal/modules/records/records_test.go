package records

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeNotes struct {
	pages     []notes.Page
	bodies    map[string]string
	listCalls int
	textCalls []string
	gotDays   int
}

func (f *fakeNotes) RecentPages(_ context.Context, _ string, days int) []notes.Page {
	f.listCalls++
	f.gotDays = days
	return f.pages
}

func (f *fakeNotes) PageText(_ context.Context, _ string, title string) string {
	f.textCalls = append(f.textCalls, title)
	return f.bodies[title]
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, userText, systemText string) (string, error) {
	f.prompts = append(f.prompts, userText)
	return f.reply, f.err
}

type fakeResolver struct {
	project string
	err     error
}

func (f fakeResolver) NotesProject(context.Context, string) (string, error) {
	return f.project, f.err
}

func newOrchestrator(n NotesSource, g llm.Generator, r ProjectResolver) *Orchestrator {
	return NewOrchestrator(n, g, r, config.NotesConfig{WindowDays: 90, MaxPages: 10}, nil)
}

func TestEmptyProjectMakesNoCalls(t *testing.T) {
	n := &fakeNotes{}
	g := &fakeGenerator{}
	s := newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "  ", "u1")

	assert.Equal(t, SentinelProjectNotConfigured, s.RecentProgress)
	assert.Equal(t, SentinelProjectNotConfigured, s.WeakAreas)
	assert.Zero(t, n.listCalls)
	assert.Empty(t, n.textCalls)
	assert.Empty(t, g.prompts)
}

func TestNoPages(t *testing.T) {
	n := &fakeNotes{pages: []notes.Page{{Title: "empty", Updated: 1}}, bodies: map[string]string{}}
	g := &fakeGenerator{}
	s := newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "proj", "")

	assert.Equal(t, sentinelPair(SentinelNoRecentRecords), s)
	assert.Equal(t, 90, n.gotDays)
	assert.Empty(t, g.prompts)
}

func TestOnlyNewestPagesAreFetched(t *testing.T) {
	n := &fakeNotes{bodies: map[string]string{}}
	for i := range 15 {
		title := string(rune('A' + i))
		n.pages = append(n.pages, notes.Page{Title: title, Updated: int64(100 - i)})
		n.bodies[title] = "body " + title
	}
	g := &fakeGenerator{reply: "最近の進捗: 色々\n弱点分野: なし"}
	newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "proj", "")

	assert.Len(t, n.textCalls, 10)
	assert.Equal(t, "A", n.textCalls[0])
	assert.Equal(t, "J", n.textCalls[9])
}

func TestGenerativeSummary(t *testing.T) {
	n := &fakeNotes{
		pages:  []notes.Page{{Title: "Go", Updated: time.Date(2025, 5, 1, 12, 0, 0, 0, time.Local).Unix()}},
		bodies: map[string]string{"Go": strings.Repeat("長", 600)},
	}
	g := &fakeGenerator{reply: "前置き\n最近の進捗: チャネルを学習\n 弱点分野: ジェネリクス, テスト \n"}

	s := newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "proj", "")
	assert.Equal(t, Summary{RecentProgress: "チャネルを学習", WeakAreas: "ジェネリクス, テスト"}, s)

	require.Len(t, g.prompts, 1)
	prompt := g.prompts[0]
	assert.Contains(t, prompt, "【Go】(2025-05-01)\n"+strings.Repeat("長", 500)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("長", 501))
	assert.Contains(t, prompt, labelProgress)
}

func TestFallbackOnGeneratorError(t *testing.T) {
	n := &fakeNotes{
		pages:  []notes.Page{{Title: "Python learning", Updated: 5}},
		bodies: map[string]string{"Python learning": "implemented FastAPI and hit エラー:依存関係"},
	}
	g := &fakeGenerator{err: &llm.Error{Kind: llm.KindRateLimited, Message: "slow down"}}

	s := newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "proj", "")
	assert.Equal(t, "「Python learning」について学習 / implemented FastAPI and hit エラー", s.RecentProgress)
	assert.Equal(t, "依存関係", s.WeakAreas)
}

func TestFallbackWhenLabelsMissing(t *testing.T) {
	n := &fakeNotes{
		pages:  []notes.Page{{Title: "memo", Updated: 5}},
		bodies: map[string]string{"memo": "nothing special"},
	}
	for _, reply := range []string{"free text only", "最近の進捗: ok", "弱点分野: x", "最近の進捗:\n弱点分野: x"} {
		g := &fakeGenerator{reply: reply}
		s := newOrchestrator(n, g, nil).GetLearningRecords(context.Background(), "proj", "")
		assert.Equal(t, "「memo」について学習", s.RecentProgress, reply)
		assert.Equal(t, SentinelNoWeakAreas, s.WeakAreas, reply)
	}
}

func TestNilGeneratorUsesHeuristic(t *testing.T) {
	n := &fakeNotes{pages: []notes.Page{{Title: "x", Updated: 1}}, bodies: map[string]string{"x": "y"}}
	s := NewOrchestrator(n, nil, nil, config.NotesConfig{}, nil).GetLearningRecords(context.Background(), "p", "")
	assert.Equal(t, "「x」について学習", s.RecentProgress)
}

func TestForUserResolvesProject(t *testing.T) {
	n := &fakeNotes{pages: []notes.Page{{Title: "x", Updated: 1}}, bodies: map[string]string{"x": "y"}}
	g := &fakeGenerator{reply: "最近の進捗: a\n弱点分野: b"}

	project, s := newOrchestrator(n, g, fakeResolver{project: "study"}).GetLearningRecordsForUser(context.Background(), "u1")
	assert.Equal(t, "study", project)
	assert.Equal(t, Summary{RecentProgress: "a", WeakAreas: "b"}, s)

	n.listCalls = 0
	project, s = newOrchestrator(n, g, fakeResolver{err: errors.New("down")}).GetLearningRecordsForUser(context.Background(), "u1")
	assert.Equal(t, "", project)
	assert.Equal(t, sentinelPair(SentinelProjectNotConfigured), s)
	assert.Zero(t, n.listCalls)

	_, s = newOrchestrator(n, g, nil).GetLearningRecordsForUser(context.Background(), "u1")
	assert.Equal(t, sentinelPair(SentinelProjectNotConfigured), s)
}
