package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownTemplates(t *testing.T) {
	for _, cat := range []Category{CategoryPlan, CategoryTodo, CategoryAnalysis, CategoryAdvice, CategoryGoal} {
		sys, err := Get(cat, SlotSystem)
		require.NoError(t, err, cat)
		assert.Contains(t, sys.Text(), "学習アシスタント")
		assert.Empty(t, sys.Fields(), "system prompts take no fields")

		user, err := Get(cat, SlotUser)
		require.NoError(t, err, cat)
		assert.NotEmpty(t, user.Fields())
	}
}

func TestGetUnknownCategoryAndSlot(t *testing.T) {
	_, err := Get("poetry", SlotSystem)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = Get(CategoryPlan, "assistant")
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = Get(CategoryQuick, SlotSystem)
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestFieldsAreOrdered(t *testing.T) {
	tpl, err := Get(CategoryPlan, SlotUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"goal", "time_available", "current_level", "focus_areas", "difficulty"}, tpl.Fields())

	tpl, err = Get(CategoryTodo, SlotUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"time_available", "recent_progress", "weak_areas", "daily_goal"}, tpl.Fields())
}

func TestRenderWithAllFields(t *testing.T) {
	for _, cat := range []Category{CategoryPlan, CategoryTodo, CategoryAnalysis, CategoryAdvice, CategoryGoal} {
		tpl, err := Get(cat, SlotUser)
		require.NoError(t, err)

		values := make(map[string]string)
		for _, f := range tpl.Fields() {
			values[f] = "<" + f + ">"
		}
		out, err := tpl.Render(values)
		require.NoError(t, err, cat)
		for _, f := range tpl.Fields() {
			assert.Contains(t, out, "<"+f+">")
		}
		assert.NotContains(t, out, "{")
	}
}

func TestRenderMissingFieldIdentifiesField(t *testing.T) {
	tpl, err := Get(CategoryPlan, SlotUser)
	require.NoError(t, err)

	_, err = tpl.Render(map[string]string{
		"goal":           "Go",
		"time_available": "60",
		"current_level":  "中級",
		"focus_areas":    "",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "difficulty", mf.Field)
	assert.Equal(t, CategoryPlan, mf.Category)
}

func TestRenderPair(t *testing.T) {
	sys, user, err := RenderPair(CategoryAnalysis, map[string]string{
		"period":           "1週間",
		"learning_records": "毎日2時間学習",
		"goals":            "英語力向上",
		"progress_rate":    "0.7",
	})
	require.NoError(t, err)
	assert.Contains(t, sys, "学習データ分析の専門家")
	assert.Contains(t, user, "進捗率: 0.7")
}

func TestQuickPrompts(t *testing.T) {
	for _, slot := range []Slot{SlotMotivation, SlotTip, SlotEncouragement} {
		tpl, err := Get(CategoryQuick, slot)
		require.NoError(t, err)
		assert.Empty(t, tpl.Fields())
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Plan ")
	require.NoError(t, err)
	assert.Equal(t, CategoryPlan, c)

	_, err = ParseCategory("nope")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
