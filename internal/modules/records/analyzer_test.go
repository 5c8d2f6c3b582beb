package records

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNoPages(t *testing.T) {
	a := Analyze(nil)
	assert.Equal(t, SentinelNoRecentRecords, a.Summary.RecentProgress)
	assert.Equal(t, SentinelNoWeakAreas, a.Summary.WeakAreas)
	assert.Empty(t, a.Progress)
	assert.Empty(t, a.Weakness)
}

func TestProgressKeywordsTechAllowList(t *testing.T) {
	a := Analyze([]NotePage{{Title: "Python learning", Body: "Today I implemented FastAPI routes.", UpdatedAt: 10}})
	assert.True(t, a.Progress.Has("Python"))
	assert.True(t, a.Progress.Has("FastAPI"))
}

func TestProgressKeywordsCaseInsensitiveTech(t *testing.T) {
	set := ExtractProgressKeywords(NotePage{Body: "docker と kubernetes を触った"})
	assert.True(t, set.Has("docker"))
	assert.True(t, set.Has("kubernetes"))
}

func TestProgressKeywordsJapaneseTriggers(t *testing.T) {
	set := ExtractProgressKeywords(NotePage{Title: "メモ", Body: "今日は学習:型推論"})
	assert.True(t, set.Has("型推論"))
}

func TestWeaknessKeywords(t *testing.T) {
	set := ExtractWeaknessKeywords(NotePage{Title: "振り返り", Body: "苦手な再帰。エラー:タイムアウト\nI am stuck on generics"})
	assert.True(t, set.Has("再帰"))
	assert.True(t, set.Has("タイムアウト"))
	assert.True(t, set.Has("generics"))

	assert.Empty(t, ExtractWeaknessKeywords(NotePage{Title: "ok", Body: "all fine"}))
}

func TestKeywordSetDeduplicates(t *testing.T) {
	set := ExtractProgressKeywords(NotePage{Body: "Go Python python Python"})
	n := 0
	for _, w := range set.Slice() {
		if w == "Python" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"Python", "python"}, set.Sorted())
}

func TestRecentProgressFragments(t *testing.T) {
	pages := []NotePage{
		{Title: "old", Body: "nothing", UpdatedAt: 1},
		{Title: "Go", Body: "goroutineを実装した。", UpdatedAt: 3},
		{Title: "Rust", Body: "", UpdatedAt: 2},
	}
	got := Analyze(pages).Summary.RecentProgress
	assert.Equal(t, "「Go」について学習 / goroutineを実装した。 / 「Rust」について学習", got)
}

func TestRecentProgressCappedAtThreeFragments(t *testing.T) {
	var pages []NotePage
	for i := range 5 {
		pages = append(pages, NotePage{Title: string(rune('a' + i)), Body: "試した", UpdatedAt: int64(i)})
	}
	got := Analyze(pages).Summary.RecentProgress
	assert.Len(t, strings.Split(got, " / "), 3)
	assert.True(t, strings.HasPrefix(got, "「e」について学習"))
}

func TestRecentProgressWithoutTitlesOrActivity(t *testing.T) {
	got := Analyze([]NotePage{{Body: "just notes"}}).Summary.RecentProgress
	assert.Equal(t, SentinelActivityContinuing, got)
}

func TestActivityContextWindow(t *testing.T) {
	body := strings.Repeat("あ", 30) + "作成した" + strings.Repeat("い", 30)
	got := activityFragment(body)
	assert.Equal(t, strings.Repeat("あ", 20)+"作成した"+strings.Repeat("い", 20), got)
}

func TestWeakAreasCappedAtThree(t *testing.T) {
	a := Analyze([]NotePage{{Title: "t", Body: "苦手:A1 苦手:B2 苦手:C3 苦手:D4 苦手:E5"}})
	require.Len(t, a.Weakness, 5)

	parts := strings.Split(a.Summary.WeakAreas, ", ")
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.True(t, a.Weakness.Has(p), p)
	}
}
