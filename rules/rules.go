// CLAUDE:SUMMARY Rule store — loads per-category keyword rule files in both the structured and legacy JSON shapes.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrStoreEmpty is returned when not a single category rule file could be
// loaded. An engine without rules cannot classify anything, so this is fatal.
var ErrStoreEmpty = errors.New("rules: no rule files loaded")

// NumCategories is the fixed number of goal categories.
const NumCategories = 17

// Labels holds the display name for each category, indexed by category-1.
var Labels = [NumCategories]string{
	"No Poverty",
	"Zero Hunger",
	"Good Health and Well-being",
	"Quality Education",
	"Gender Equality",
	"Clean Water and Sanitation",
	"Affordable and Clean Energy",
	"Decent Work and Economic Growth",
	"Industry, Innovation and Infrastructure",
	"Reduced Inequalities",
	"Sustainable Cities and Communities",
	"Responsible Consumption and Production",
	"Climate Action",
	"Life Below Water",
	"Life on Land",
	"Peace, Justice and Strong Institutions",
	"Partnerships for the Goals",
}

// Label returns the display name for a 1-based category, or "" when the
// category is out of range.
func Label(category int) string {
	if category < 1 || category > NumCategories {
		return ""
	}
	return Labels[category-1]
}

// Field names match the scope keys used inside rule files.
const (
	FieldTitleAbs    = "TITLE_ABS"
	FieldAuthKey     = "AUTHKEY"
	FieldTitleAbsKey = "TITLE_ABS_KEY"

	// FieldAll selects patterns from every scope.
	FieldAll = "ALL"
)

// Rule is one category's pattern set, keyed by field scope.
type Rule struct {
	Category int
	Include  map[string][]string
	Exclude  map[string][]string
}

// ruleFile accepts both on-disk shapes. The structured shape carries
// include/exclude maps; the legacy flat shape carries bare pattern lists
// that all score against TITLE_ABS.
type ruleFile struct {
	Include map[string][]string `json:"include"`
	Exclude map[string][]string `json:"exclude"`

	Keywords []string `json:"keywords"`
	Phrases  []string `json:"phrases"`
	Patterns []string `json:"patterns"`
}

// filenameConventions are tried in order for each category. Rule sets
// collected from different sources disagree on casing and zero padding.
var filenameConventions = []string{"SDG%02d.json", "sdg_%d.json", "SDG_%d.json", "sdg%02d.json"}

// Store holds the loaded rule set, immutable after Load.
type Store struct {
	rules  map[int]Rule
	logger *slog.Logger
}

// Load reads one rule file per category from dir. A category whose file is
// missing or malformed is skipped with a warning; only a completely empty
// result is an error.
func Load(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "rules")

	s := &Store{rules: make(map[int]Rule), logger: logger}
	for category := 1; category <= NumCategories; category++ {
		rule, err := loadCategory(dir, category)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("skipping category", "category", category, "error", err)
			}
			continue
		}
		s.rules[category] = rule
	}
	if len(s.rules) == 0 {
		return nil, fmt.Errorf("%w: dir %s", ErrStoreEmpty, dir)
	}
	logger.Info("rules loaded", "categories", len(s.rules), "dir", dir)
	return s, nil
}

func loadCategory(dir string, category int) (Rule, error) {
	var data []byte
	var err error
	for _, conv := range filenameConventions {
		data, err = os.ReadFile(filepath.Join(dir, fmt.Sprintf(conv, category)))
		if err == nil {
			break
		}
	}
	if err != nil {
		return Rule{}, err
	}

	var raw ruleFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Rule{}, fmt.Errorf("parse category %d: %w", category, err)
	}
	rule := Rule{Category: category, Include: raw.Include, Exclude: raw.Exclude}
	if rule.Include == nil {
		rule.Include = map[string][]string{}
	}
	if rule.Exclude == nil {
		rule.Exclude = map[string][]string{}
	}

	// Legacy flat files fold everything into the title/abstract scope.
	legacy := len(raw.Keywords) + len(raw.Phrases) + len(raw.Patterns)
	if legacy > 0 && len(raw.Include) == 0 {
		var merged []string
		merged = append(merged, raw.Keywords...)
		merged = append(merged, raw.Phrases...)
		merged = append(merged, raw.Patterns...)
		rule.Include[FieldTitleAbs] = merged
	}

	if countPatterns(rule.Include) == 0 {
		return Rule{}, fmt.Errorf("category %d has no include patterns", category)
	}
	return rule, nil
}

func countPatterns(m map[string][]string) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

// Rule returns the rule for a category, if loaded.
func (s *Store) Rule(category int) (Rule, bool) {
	r, ok := s.rules[category]
	return r, ok
}

// Categories returns the loaded category numbers in ascending order.
func (s *Store) Categories() []int {
	out := make([]int, 0, len(s.rules))
	for category := 1; category <= NumCategories; category++ {
		if _, ok := s.rules[category]; ok {
			out = append(out, category)
		}
	}
	return out
}

// CategorySummary describes one loaded category for inspection endpoints.
type CategorySummary struct {
	Category     int    `json:"category"`
	Label        string `json:"label"`
	IncludeCount int    `json:"include_count"`
	ExcludeCount int    `json:"exclude_count"`
}

// Summary reports pattern counts per loaded category, ascending.
func (s *Store) Summary() []CategorySummary {
	out := make([]CategorySummary, 0, len(s.rules))
	for _, category := range s.Categories() {
		r := s.rules[category]
		out = append(out, CategorySummary{
			Category:     category,
			Label:        Label(category),
			IncludeCount: countPatterns(r.Include),
			ExcludeCount: countPatterns(r.Exclude),
		})
	}
	return out
}
