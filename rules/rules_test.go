package rules

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeRule(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoadStructuredShape(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "SDG07.json", `{
		"include": {"TITLE_ABS": ["solar energy", "wind power"], "AUTHKEY": ["renewables"]},
		"exclude": {"TITLE_ABS": ["solar system"]}
	}`)

	s, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rule, ok := s.Rule(7)
	if !ok {
		t.Fatal("category 7 not loaded")
	}
	if len(rule.Include[FieldTitleAbs]) != 2 || len(rule.Include[FieldAuthKey]) != 1 {
		t.Errorf("include = %v", rule.Include)
	}
	if len(rule.Exclude[FieldTitleAbs]) != 1 {
		t.Errorf("exclude = %v", rule.Exclude)
	}
}

func TestLoadLegacyShape(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "sdg_13.json", `{
		"keywords": ["climate change"],
		"phrases": ["global warming mitigation"],
		"patterns": ["carbon * emissions"],
		"weight": 2,
		"synonyms": {"climate": ["climatic"]}
	}`)

	s, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rule, ok := s.Rule(13)
	if !ok {
		t.Fatal("category 13 not loaded")
	}
	got := rule.Include[FieldTitleAbs]
	if len(got) != 3 {
		t.Errorf("merged include = %v, want keywords+phrases+patterns", got)
	}
}

func TestLoadFilenameConventionOrder(t *testing.T) {
	dir := t.TempDir()
	// Zero-padded upper-case name wins over the underscore variant.
	writeRule(t, dir, "SDG01.json", `{"include": {"TITLE_ABS": ["poverty line"]}}`)
	writeRule(t, dir, "sdg_1.json", `{"include": {"TITLE_ABS": ["should not load"]}}`)

	s, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rule, _ := s.Rule(1)
	if rule.Include[FieldTitleAbs][0] != "poverty line" {
		t.Errorf("loaded %v, wrong convention picked", rule.Include)
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "SDG01.json", `{not json`)
	writeRule(t, dir, "SDG02.json", `{"include": {"TITLE_ABS": ["food security"]}}`)

	s, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Rule(1); ok {
		t.Error("malformed category 1 must be skipped")
	}
	if _, ok := s.Rule(2); !ok {
		t.Error("category 2 must survive a bad sibling")
	}
	if got := s.Categories(); len(got) != 1 || got[0] != 2 {
		t.Errorf("categories = %v", got)
	}
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := Load(t.TempDir(), discard())
	if !errors.Is(err, ErrStoreEmpty) {
		t.Fatalf("err = %v, want ErrStoreEmpty", err)
	}
}

func TestLoadRejectsEmptyInclude(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "SDG05.json", `{"include": {}}`)
	if _, err := Load(dir, discard()); !errors.Is(err, ErrStoreEmpty) {
		t.Fatalf("err = %v, want ErrStoreEmpty for include-less store", err)
	}
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "SDG04.json", `{"include": {"TITLE_ABS": ["inclusive education", "literacy rate"]}}`)

	s, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum := s.Summary()
	if len(sum) != 1 {
		t.Fatalf("summary = %v", sum)
	}
	if sum[0].Category != 4 || sum[0].Label != "Quality Education" || sum[0].IncludeCount != 2 {
		t.Errorf("summary[0] = %+v", sum[0])
	}
}

func TestLabel(t *testing.T) {
	if got := Label(1); got != "No Poverty" {
		t.Errorf("Label(1) = %q", got)
	}
	if got := Label(17); got != "Partnerships for the Goals" {
		t.Errorf("Label(17) = %q", got)
	}
	if got := Label(0); got != "" {
		t.Errorf("Label(0) = %q", got)
	}
	if got := Label(18); got != "" {
		t.Errorf("Label(18) = %q", got)
	}
}
