// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signal

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Rules groups the three keyword lists by source language and domain.
type Rules struct {
	// FilingsKR matches Korean regulatory filing names (exact substring).
	FilingsKR []string `yaml:"filings_kr"`

	// NewsKR matches Korean news headlines and summaries (exact substring).
	NewsKR []string `yaml:"news_kr"`

	// NewsEN matches English news headlines (case-insensitive).
	NewsEN []string `yaml:"news_en"`
}

// DefaultRules returns the built-in keyword lists.
func DefaultRules() Rules {
	return Rules{
		FilingsKR: []string{
			"무상증자",
			"유상증자",
			"영업익",
			"30% 증가",
			"단일판매공급계약",
			"실적",
			"배당",
			"자기주식",
			"M&A",
			"인수",
		},
		NewsKR: []string{
			"급등", "급락", "폭등", "폭락",
			"상한가", "하한가",
			"실적", "영업이익", "순이익", "매출",
			"인수", "합병", "M&A",
			"배당", "무상증자", "유상증자",
			"공모", "IPO", "상장",
			"금리", "기준금리",
			"환율", "달러",
			"반도체", "AI", "인공지능",
			"삼성전자", "SK하이닉스", "네이버", "카카오",
			"코스피", "코스닥", "나스닥", "다우", "S&P",
		},
		NewsEN: []string{
			"surge", "plunge", "soar", "crash", "rally", "slump",
			"record high", "record low", "all-time high",
			"earnings beat", "earnings miss", "revenue",
			"merger", "acquisition", "M&A",
			"dividend", "buyback", "stock split",
			"IPO", "listing",
			"interest rate", "Fed", "Federal Reserve",
			"inflation", "recession",
			"AI", "artificial intelligence",
			"semiconductor", "chip", "nvidia", "apple", "tesla",
		},
	}
}

// LoadRules reads a YAML rules file and merges it over the defaults: a list
// present in the file replaces the built-in one, an absent list keeps it.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading signal rules %s: %w", path, err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return rules, fmt.Errorf("parsing signal rules %s: %w", path, err)
	}

	if len(override.FilingsKR) > 0 {
		rules.FilingsKR = override.FilingsKR
	}
	if len(override.NewsKR) > 0 {
		rules.NewsKR = override.NewsKR
	}
	if len(override.NewsEN) > 0 {
		rules.NewsEN = override.NewsEN
	}
	return rules, nil
}
