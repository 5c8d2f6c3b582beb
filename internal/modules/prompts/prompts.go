package prompts

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Category identifies a family of prompts.
type Category string

// Slot identifies one prompt within a category.
type Slot string

const (
	CategoryPlan     Category = "plan"
	CategoryTodo     Category = "todo"
	CategoryAnalysis Category = "analysis"
	CategoryAdvice   Category = "advice"
	CategoryGoal     Category = "goal"
	CategoryQuick    Category = "quick"
)

const (
	SlotSystem Slot = "system"
	SlotUser   Slot = "user"

	SlotMotivation    Slot = "motivation"
	SlotTip           Slot = "tip"
	SlotEncouragement Slot = "encouragement"
)

var (
	ErrUnknownCategory = errors.New("unknown prompt category")
	ErrUnknownSlot     = errors.New("unknown prompt slot")
	ErrMissingField    = errors.New("missing template field")
)

// MissingFieldError reports the first required field absent from a render call.
type MissingFieldError struct {
	Category Category
	Slot     Slot
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template %s/%s: missing field %q", e.Category, e.Slot, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Template is an immutable prompt text with named {field} placeholders.
type Template struct {
	category Category
	slot     Slot
	text     string
	fields   []string
}

func newTemplate(category Category, slot Slot, text string) Template {
	seen := make(map[string]struct{})
	fields := make([]string, 0, 4)
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		fields = append(fields, m[1])
	}
	return Template{category: category, slot: slot, text: text, fields: fields}
}

// Text returns the raw template text.
func (t Template) Text() string { return t.text }

// Fields returns the placeholder names in order of first appearance.
func (t Template) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// Render substitutes every placeholder. A field absent from values fails with
// *MissingFieldError; empty strings are accepted as values.
func (t Template) Render(values map[string]string) (string, error) {
	for _, f := range t.fields {
		if _, ok := values[f]; !ok {
			return "", &MissingFieldError{Category: t.category, Slot: t.slot, Field: f}
		}
	}
	return placeholderRe.ReplaceAllStringFunc(t.text, func(m string) string {
		return values[m[1:len(m)-1]]
	}), nil
}

var registry = buildRegistry()

func buildRegistry() map[Category]map[Slot]Template {
	reg := make(map[Category]map[Slot]Template, len(rawPrompts))
	for cat, slots := range rawPrompts {
		reg[cat] = make(map[Slot]Template, len(slots))
		for slot, text := range slots {
			reg[cat][slot] = newTemplate(cat, slot, text)
		}
	}
	return reg
}

// Get looks up a template by category and slot.
func Get(category Category, slot Slot) (Template, error) {
	slots, ok := registry[category]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	t, ok := slots[slot]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q for category %q", ErrUnknownSlot, slot, category)
	}
	return t, nil
}

// Categories lists the registered categories.
func Categories() []Category {
	return []Category{CategoryPlan, CategoryTodo, CategoryAnalysis, CategoryAdvice, CategoryGoal, CategoryQuick}
}

// ParseCategory maps user input to a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := registry[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// RenderPair returns the system text and the rendered user text for a task category.
func RenderPair(category Category, values map[string]string) (system string, user string, err error) {
	sys, err := Get(category, SlotSystem)
	if err != nil {
		return "", "", err
	}
	tpl, err := Get(category, SlotUser)
	if err != nil {
		return "", "", err
	}
	user, err = tpl.Render(values)
	if err != nil {
		return "", "", err
	}
	return sys.Text(), user, nil
}
