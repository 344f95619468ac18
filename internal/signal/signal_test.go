package signal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchKorean(t *testing.T) {
	kw := DefaultRules().NewsKR

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"contains earnings keyword", "실적 발표 예정", true},
		{"contains surge keyword", "반도체주 급등 마감", true},
		{"no keyword", "오늘의 날씨는 맑음", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.text, kw, false); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchEnglishFoldsCase(t *testing.T) {
	kw := DefaultRules().NewsEN

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"lowercase keyword in caps headline", "STOCKS SURGE ON FED PIVOT", true},
		{"mixed case", "Nvidia Rally Continues", true},
		{"substring inside word", "insurgents seize town", true},
		{"no keyword", "quiet trading day expected", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.text, kw, true); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchKoreanDoesNotFoldCase(t *testing.T) {
	// Korean filing lists carry "M&A" verbatim; without case folding a
	// lowercase variant must not match.
	kw := []string{"M&A"}
	if Match("m&a 추진", kw, false) {
		t.Error("exact-substring mode should not fold case")
	}
	if !Match("M&A 추진", kw, false) {
		t.Error("exact substring should match")
	}
}

func TestMatchEmptyKeywords(t *testing.T) {
	if Match("any text", nil, true) {
		t.Error("nil keyword list should never match")
	}
	if Match("any text", []string{""}, false) {
		t.Error("empty keyword should be skipped, not match everything")
	}
}

func TestLoadRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "news_en:\n  - bankruptcy\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.NewsEN) != 1 || rules.NewsEN[0] != "bankruptcy" {
		t.Errorf("NewsEN = %v, want override applied", rules.NewsEN)
	}
	// Lists absent from the file keep their defaults.
	if len(rules.FilingsKR) == 0 || len(rules.NewsKR) == 0 {
		t.Error("absent lists should keep built-in defaults")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	// Defaults still come back so the caller can degrade gracefully.
	if len(rules.FilingsKR) == 0 {
		t.Error("defaults should be returned alongside the error")
	}
}
