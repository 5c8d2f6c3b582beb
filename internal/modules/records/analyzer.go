package records

import (
	"regexp"
	"sort"
	"strings"
)

const (
	SentinelProjectNotConfigured = "Scrapboxプロジェクトが設定されていません"
	SentinelNoRecentRecords      = "最近の学習記録が見つかりません"
	SentinelNoWeakAreas          = "特に弱点は見つかりませんでした"
	SentinelActivityContinuing   = "学習活動を継続中"
)

const (
	maxProgressPages     = 3
	maxProgressFragments = 3
	maxWeakAreas         = 3
)

// NotePage is one fetched note with its body.
type NotePage struct {
	Title     string
	Body      string
	UpdatedAt int64
}

func (p NotePage) text() string { return p.Title + " " + p.Body }

// KeywordSet is a deduplicated set of matched substrings. Iteration order is
// Go map order, so anything that takes "the first N" of a set is not stable
// between runs.
type KeywordSet map[string]struct{}

func (s KeywordSet) Add(words ...string) {
	for _, w := range words {
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

func (s KeywordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s KeywordSet) Merge(other KeywordSet) {
	for w := range other {
		s[w] = struct{}{}
	}
}

// Slice returns the members in map iteration order.
func (s KeywordSet) Slice() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	return out
}

// Sorted returns the members sorted, for display and tests.
func (s KeywordSet) Sorted() []string {
	out := s.Slice()
	sort.Strings(out)
	return out
}

// term is the run captured after a trigger word.
const term = `([ァ-ヶー一-龯a-zA-Z0-9]+)`

func triggerPatterns(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(regexp.QuoteMeta(w)+`.*?`+term))
	}
	return out
}

func englishTrigger(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alternatives + `)\s+` + term)
}

var (
	progressPatterns = append(
		triggerPatterns("学習", "勉強", "習得", "理解", "完了", "実装"),
		englishTrigger(`learned|studied|mastered|understood|completed|implemented`),
	)

	weaknessPatterns = append(
		triggerPatterns("苦手", "難しい", "わからない", "課題", "問題", "エラー", "つまづ", "詰まっ"),
		englishTrigger(`struggling with|struggled with|difficult|don't understand|issue with|problem with|error in|stuck on`),
	)

	// \b is ASCII-only here, so a name directly followed by kana still matches.
	techPattern = regexp.MustCompile(`(?i)\b(Python|JavaScript|TypeScript|React|Vue|FastAPI|Django|Flask|Node\.js|Docker|Kubernetes|AWS|GCP|SQL|NoSQL|Git|GitHub)\b`)

	activityTriggers = []string{
		"実装した", "作成した", "学習した", "理解した", "完了した", "試した", "やってみた",
		"implemented", "created", "learned", "understood", "completed", "tried",
	}
	activityContext = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(activityTriggers))
		for _, t := range activityTriggers {
			m[t] = regexp.MustCompile(`.{0,20}` + regexp.QuoteMeta(t) + `.{0,20}`)
		}
		return m
	}()
)

func collect(set KeywordSet, patterns []*regexp.Regexp, text string) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			set.Add(m[1])
		}
	}
}

// ExtractProgressKeywords returns what the page says was learned, plus any
// allow-listed technology names.
func ExtractProgressKeywords(p NotePage) KeywordSet {
	text := p.text()
	set := KeywordSet{}
	collect(set, progressPatterns, text)
	set.Add(techPattern.FindAllString(text, -1)...)
	return set
}

// ExtractWeaknessKeywords returns what the page says was hard or broken.
func ExtractWeaknessKeywords(p NotePage) KeywordSet {
	set := KeywordSet{}
	collect(set, weaknessPatterns, p.text())
	return set
}

// Analysis is the heuristic result over a batch of pages.
type Analysis struct {
	Summary  Summary
	Progress KeywordSet
	Weakness KeywordSet
}

// Analyze is the degraded-mode summary used when generative analysis is
// unavailable. It never fails.
func Analyze(pages []NotePage) Analysis {
	a := Analysis{Progress: KeywordSet{}, Weakness: KeywordSet{}}
	for _, p := range pages {
		a.Progress.Merge(ExtractProgressKeywords(p))
		a.Weakness.Merge(ExtractWeaknessKeywords(p))
	}
	a.Summary = Summary{
		RecentProgress: recentProgress(pages),
		WeakAreas:      weakAreas(a.Weakness),
	}
	return a
}

func recentProgress(pages []NotePage) string {
	if len(pages) == 0 {
		return SentinelNoRecentRecords
	}
	newest := make([]NotePage, len(pages))
	copy(newest, pages)
	sort.SliceStable(newest, func(i, j int) bool { return newest[i].UpdatedAt > newest[j].UpdatedAt })
	if len(newest) > maxProgressPages {
		newest = newest[:maxProgressPages]
	}

	var fragments []string
	for _, p := range newest {
		if p.Title != "" {
			fragments = append(fragments, "「"+p.Title+"」について学習")
		}
		if ctx := activityFragment(p.Body); ctx != "" {
			fragments = append(fragments, ctx)
		}
	}
	if len(fragments) == 0 {
		return SentinelActivityContinuing
	}
	if len(fragments) > maxProgressFragments {
		fragments = fragments[:maxProgressFragments]
	}
	return strings.Join(fragments, " / ")
}

// activityFragment returns the text around the first activity verb found, by trigger order.
func activityFragment(body string) string {
	for _, t := range activityTriggers {
		if !strings.Contains(body, t) {
			continue
		}
		if m := activityContext[t].FindString(body); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func weakAreas(set KeywordSet) string {
	if len(set) == 0 {
		return SentinelNoWeakAreas
	}
	words := set.Slice()
	if len(words) > maxWeakAreas {
		words = words[:maxWeakAreas]
	}
	return strings.Join(words, ", ")
}
