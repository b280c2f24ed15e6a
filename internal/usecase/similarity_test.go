package usecase

import (
	"math"
	"testing"

	"github.com/pozmatch/backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreExactCodeMatch(t *testing.T) {
	scorer := NewSimilarityScorer()

	t.Run("line containing the item code scores 100", func(t *testing.T) {
		item := domain.CatalogItem{
			Code:        "25.100.1012",
			Description: "Beton temel, C25",
			Unit:        "m3",
			UnitPrice:   450.0,
		}

		score := scorer.Score("25.100.1012 beton dökümü", item)
		if !almostEqual(score, 100) {
			t.Errorf("score = %v, want 100 for exact code match", score)
		}
	})

	t.Run("code match dominates spec conflicts", func(t *testing.T) {
		item := domain.CatalogItem{Code: "25.100.1012", Description: "Beton temel 40x60"}

		// The 2x3 spec conflicts with the description, but the code wins.
		score := scorer.Score("25.100.1012 kalıp 2x3", item)
		if !almostEqual(score, 100) {
			t.Errorf("score = %v, want 100 (code match short-circuits)", score)
		}
	})

	t.Run("code in line but different item code falls through to text", func(t *testing.T) {
		item := domain.CatalogItem{Code: "25.100.9999", Description: "tamamen alakasız iş kalemi"}

		score := scorer.Score("25.100.1012 beton dökümü", item)
		if score >= 100 {
			t.Errorf("score = %v, want < 100 when the codes differ", score)
		}
	})

	t.Run("partial code pattern is not a code match", func(t *testing.T) {
		item := domain.CatalogItem{Code: "25.100", Description: "kısa kodlu kalem"}

		// "25.100" does not match the 1-2/3/3-4 digit code shape.
		score := scorer.Score("25.100 iş kalemi tarifi", item)
		if almostEqual(score, 100) {
			t.Errorf("score = %v, should not be a code match for a short code", score)
		}
	})
}

func TestFuzzyTextScore(t *testing.T) {
	t.Run("identical text scores 100", func(t *testing.T) {
		score := fuzzyTextScore("beton temel", "Beton Temel")
		if !almostEqual(score, 100) {
			t.Errorf("score = %v, want 100 for case-insensitive equality", score)
		}
	})

	t.Run("containment scores 80 in both directions", func(t *testing.T) {
		score := fuzzyTextScore("duvar sıvası iç cephe", "duvar sıvası")
		if !almostEqual(score, 80) {
			t.Errorf("line ⊇ description: score = %v, want 80", score)
		}

		score = fuzzyTextScore("duvar sıvası", "duvar sıvası iç cephe")
		if !almostEqual(score, 80) {
			t.Errorf("description ⊇ line: score = %v, want 80", score)
		}
	})

	t.Run("word overlap ratio", func(t *testing.T) {
		// "beton santral" vs "beton pompa aktarma": only "beton" matches,
		// denominator is max(2, 3) = 3.
		score := fuzzyTextScore("beton santral", "beton pompa aktarma")
		if !almostEqual(score, 100.0/3.0) {
			t.Errorf("score = %v, want %v", score, 100.0/3.0)
		}
	})

	t.Run("word matches on substring containment", func(t *testing.T) {
		// "sıva" is contained in "sıvası", so it counts as a word match.
		score := fuzzyTextScore("duvar sıva", "perde sıvası çekilmesi")
		if !almostEqual(score, 100.0/3.0) {
			t.Errorf("score = %v, want %v", score, 100.0/3.0)
		}
	})

	t.Run("bounded between 0 and 100 for non-containing pairs", func(t *testing.T) {
		pairs := [][2]string{
			{"beton temel kazısı", "çelik konstrüksiyon imalatı"},
			{"a b c d", "a b c d e f"},
			{"x", "y"},
		}
		for _, p := range pairs {
			score := fuzzyTextScore(p[0], p[1])
			if score < 0 || score > 100 {
				t.Errorf("fuzzyTextScore(%q, %q) = %v, want within [0,100]", p[0], p[1], score)
			}
		}
	})

	t.Run("no overlap scores 0", func(t *testing.T) {
		score := fuzzyTextScore("beton temel", "çelik çatı")
		if !almostEqual(score, 0) {
			t.Errorf("score = %v, want 0", score)
		}
	})
}

func TestScoreSpecAdjustments(t *testing.T) {
	scorer := NewSimilarityScorer()

	t.Run("matching spec token grants one flat bonus", func(t *testing.T) {
		item := domain.CatalogItem{Code: "X1", Description: "duvar sıvası 2x3 uygulaması", UnitPrice: 10}

		// Description contains the line: base 80, plus +20 for the shared
		// 2x3 token.
		score := scorer.Score("duvar sıvası 2x3", item)
		if !almostEqual(score, 100) {
			t.Errorf("score = %v, want 100 (80 containment + 20 spec bonus)", score)
		}
	})

	t.Run("computed-area line against bare-dimension description", func(t *testing.T) {
		item := domain.CatalogItem{Code: "X1", Description: "duvar sıvası 2x3", UnitPrice: 10}

		// Word overlap is full (the "(2x3)=6" word contains "2x3") so the
		// base is 100. The 2x3 token matches after whitespace normalization
		// (+20) while "(2x3)=6" itself has no counterpart (-30).
		score := scorer.Score("duvar sıvası (2x3)=6", item)
		if !almostEqual(score, 90) {
			t.Errorf("score = %v, want 90 (100 overlap + 20 - 30)", score)
		}
	})

	t.Run("bonus is flat, not per token", func(t *testing.T) {
		item := domain.CatalogItem{Description: "kalıp paneli 2x3 4x5"}

		// Word overlap base: kalıp, 2x3, 4x5 match out of max 4 words = 75.
		// Both spec tokens match but the bonus is granted once.
		score := scorer.Score("kalıp 2x3 4x5", item)
		if !almostEqual(score, 95) {
			t.Errorf("score = %v, want 95 (75 overlap + one 20 bonus)", score)
		}
	})

	t.Run("match and conflict apply together for net -10", func(t *testing.T) {
		// Base overlap is 100% (identical words before specs), so equality
		// path must be avoided: add a word so only containment fails too.
		item := domain.CatalogItem{Description: "perde duvar 2x3 montaj"}

		line := "perde duvarlar 2x3 montaj ilave 9kg"
		base := fuzzyTextScore(line, item.Description)
		score := scorer.Score(line, item)

		// 2x3 matches (+20), 9kg conflicts (-30): net -10 on top of base.
		if !almostEqual(score, base+20-30) {
			t.Errorf("score = %v, want base %v - 10", score, base)
		}
	})

	t.Run("conflicting spec token applies one flat penalty", func(t *testing.T) {
		item := domain.CatalogItem{Description: "alçı levha duvar kaplaması"}

		line := "alçı levha duvar kaplaması ek 12mm 18mm"
		base := fuzzyTextScore(line, item.Description)
		score := scorer.Score(line, item)

		if !almostEqual(score, base-30) {
			t.Errorf("score = %v, want base %v - 30 (flat, not per conflict)", score, base)
		}
	})

	t.Run("score can go negative", func(t *testing.T) {
		item := domain.CatalogItem{Description: "çelik çatı makası"}

		score := scorer.Score("beton perde 12mm donatı", item)
		if score >= 0 {
			t.Errorf("score = %v, want negative (0 base - 30 conflict)", score)
		}
	})

	t.Run("no spec tokens in line means no adjustment", func(t *testing.T) {
		item := domain.CatalogItem{Description: "duvar sıvası 2x3"}

		score := scorer.Score("duvar sıvası", item)
		if !almostEqual(score, 80) {
			t.Errorf("score = %v, want plain containment 80", score)
		}
	})
}

func TestEligibleCandidate(t *testing.T) {
	tests := []struct {
		description string
		want        bool
	}{
		{"", false},
		{"ab", false},
		{"abc", true},
		{"beton temel", true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := eligibleCandidate(domain.CatalogItem{Description: tt.description})
			if got != tt.want {
				t.Errorf("eligibleCandidate(%q) = %v, want %v", tt.description, got, tt.want)
			}
		})
	}
}
