// CLAUDE:SUMMARY Keyword classification engine — compiles rule patterns to bounded regexps and scores text per category.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/prahastiwi/sdgdoc/rules"
)

const (
	// DefaultMinMatches is the match-count threshold when callers pass 0.
	DefaultMinMatches = 1

	maxResults         = 10
	maxMatchedPatterns = 20

	confidencePerMatch = 10
	confidenceBase     = 20
	confidenceCeiling  = 100
)

// Match is one category's classification outcome.
type Match struct {
	Category        int      `json:"category"`
	Label           string   `json:"label"`
	MatchCount      int      `json:"match_count"`
	Confidence      int      `json:"confidence"`
	MatchedPatterns []string `json:"matched_patterns"`
	ExcludedCount   int      `json:"excluded_count"`
}

// compiledPattern pairs the original rule text with its compiled matcher.
type compiledPattern struct {
	text string
	re   *regexp.Regexp
}

type compiledRule struct {
	category int
	include  map[string][]compiledPattern
	exclude  []compiledPattern // exclusions apply regardless of field scope
}

// Engine scores text against a loaded rule store. Safe for concurrent use;
// all state is immutable after New.
type Engine struct {
	rules  []compiledRule
	logger *slog.Logger
}

// New compiles every pattern in the store up front so Analyze never pays
// compilation cost per request.
func New(store *rules.Store, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "engine")

	e := &Engine{logger: logger}
	for _, category := range store.Categories() {
		rule, _ := store.Rule(category)
		cr := compiledRule{category: category, include: make(map[string][]compiledPattern)}
		for field, patterns := range rule.Include {
			for _, p := range patterns {
				re, err := compilePattern(p)
				if err != nil {
					return nil, fmt.Errorf("engine: category %d include %q: %w", category, p, err)
				}
				cr.include[field] = append(cr.include[field], compiledPattern{text: p, re: re})
			}
		}
		for _, patterns := range rule.Exclude {
			for _, p := range patterns {
				re, err := compilePattern(p)
				if err != nil {
					return nil, fmt.Errorf("engine: category %d exclude %q: %w", category, p, err)
				}
				cr.exclude = append(cr.exclude, compiledPattern{text: p, re: re})
			}
		}
		e.rules = append(e.rules, cr)
	}
	return e, nil
}

// compilePattern turns a rule pattern into a word-bounded regexp. A single
// "*" acts as a bounded wildcard between its prefix and suffix; everything
// else matches literally.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	p := normalize(pattern)
	if p == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	var expr string
	if i := strings.Index(p, "*"); i >= 0 && i == strings.LastIndex(p, "*") {
		prefix := strings.TrimSpace(p[:i])
		suffix := strings.TrimSpace(p[i+1:])
		expr = `\b` + regexp.QuoteMeta(prefix) + `\b.{0,40}?\b` + regexp.QuoteMeta(suffix) + `\b`
	} else {
		expr = `\b` + regexp.QuoteMeta(p) + `\b`
	}
	return regexp.Compile(expr)
}

var wsRe = regexp.MustCompile(`\s+`)

// normalize lowercases and collapses runs of whitespace, mirroring how rule
// patterns are written.
func normalize(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(strings.ToLower(s), " "))
}

// Analyze scores text against every category. field restricts which include
// scopes are consulted; rules.FieldAll (or "") consults all of them.
// Exclusion patterns always apply across every scope. Categories below
// minMatches after exclusion are dropped. Results are ordered by confidence
// descending, then category ascending, and capped at ten.
func (e *Engine) Analyze(text, field string, minMatches int) []Match {
	if minMatches <= 0 {
		minMatches = DefaultMinMatches
	}
	norm := normalize(text)
	if norm == "" {
		return nil
	}
	if field == "" {
		field = rules.FieldAll
	}

	var out []Match
	for _, cr := range e.rules {
		m := e.score(cr, norm, field, minMatches)
		if m != nil {
			out = append(out, *m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func (e *Engine) score(cr compiledRule, norm, field string, minMatches int) *Match {
	matched := make(map[string]struct{})
	for scope, patterns := range cr.include {
		if field != rules.FieldAll && scope != field {
			continue
		}
		for _, p := range patterns {
			if p.re.MatchString(norm) {
				matched[p.text] = struct{}{}
			}
		}
	}
	if len(matched) == 0 {
		return nil
	}

	excluded := 0
	for _, p := range cr.exclude {
		if _, ok := matched[p.text]; ok && p.re.MatchString(norm) {
			delete(matched, p.text)
			excluded++
		}
	}

	count := len(matched)
	if count < minMatches {
		return nil
	}

	patterns := make([]string, 0, len(matched))
	for p := range matched {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	if len(patterns) > maxMatchedPatterns {
		patterns = patterns[:maxMatchedPatterns]
	}

	confidence := count*confidencePerMatch + confidenceBase
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	return &Match{
		Category:        cr.category,
		Label:           rules.Label(cr.category),
		MatchCount:      count,
		Confidence:      confidence,
		MatchedPatterns: patterns,
		ExcludedCount:   excluded,
	}
}
