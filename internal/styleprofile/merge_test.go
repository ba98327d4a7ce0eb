package styleprofile

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

func phrases(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return out
}

func TestMergeProfileCapsHoldAcrossMerges(t *testing.T) {
	profile := NewProfile("p-1", "u", StyleAnalysis{Style: Style{Tone: "friendly", FormalityLevel: 5}}, time.Now())
	for i := 0; i < 30; i++ {
		profile = MergeProfile(profile, StyleAnalysis{Style: Style{
			CommonPhrases:  phrases(fmt.Sprintf("p%d", i), 4),
			SignatureWords: phrases(fmt.Sprintf("w%d", i), 6),
		}}, time.Now())
		if len(profile.CommonPhrases) > MaxCommonPhrases {
			t.Fatalf("merge %d: %d common phrases", i, len(profile.CommonPhrases))
		}
		if len(profile.SignatureWords) > MaxSignatureWords {
			t.Fatalf("merge %d: %d signature words", i, len(profile.SignatureWords))
		}
		if profile.ConfidenceScore > MaxConfidence {
			t.Fatalf("merge %d: confidence %v", i, profile.ConfidenceScore)
		}
	}
}

func TestMergeProfileKeepsFirstEntries(t *testing.T) {
	existing := StyleProfile{Style: Style{CommonPhrases: phrases("old", 10), SignatureWords: phrases("old", 13)}}
	incoming := StyleAnalysis{Style: Style{CommonPhrases: []string{"new phrase"}, SignatureWords: []string{"a", "b", "c"}}}

	got := MergeProfile(existing, incoming, time.Now())
	if !reflect.DeepEqual(got.CommonPhrases, existing.CommonPhrases) {
		t.Fatalf("expected new phrases to be dropped, got %v", got.CommonPhrases)
	}
	wantWords := append(phrases("old", 13), "a", "b")
	if !reflect.DeepEqual(got.SignatureWords, wantWords) {
		t.Fatalf("signature words = %v, want %v", got.SignatureWords, wantWords)
	}
}

func TestMergeProfileDoesNotAliasExisting(t *testing.T) {
	backing := make([]string, 2, 10)
	copy(backing, []string{"a", "b"})
	existing := StyleProfile{Style: Style{CommonPhrases: backing, WritingPatterns: map[string]any{"k": "v"}}}

	got := MergeProfile(existing, StyleAnalysis{Style: Style{CommonPhrases: []string{"c"}, WritingPatterns: map[string]any{"k": "new"}}}, time.Now())
	got.CommonPhrases[0] = "changed"
	if existing.CommonPhrases[0] != "a" {
		t.Fatalf("merge aliased the existing phrase list")
	}
	if existing.WritingPatterns["k"] != "v" {
		t.Fatalf("merge mutated existing writing patterns")
	}
}

func TestMergeProfileFormalityAveraging(t *testing.T) {
	tests := []struct {
		existing, incoming, want int
	}{
		{existing: 4, incoming: 9, want: 7}, // 6.5 rounds half away from zero
		{existing: 4, incoming: 8, want: 6},
		{existing: 1, incoming: 2, want: 2},
		{existing: 7, incoming: 0, want: 7},
		{existing: 0, incoming: 3, want: 3},
		{existing: 10, incoming: 10, want: 10},
		{existing: 0, incoming: 0, want: DefaultFormality},
	}
	for _, tt := range tests {
		got := MergeProfile(
			StyleProfile{Style: Style{FormalityLevel: tt.existing}},
			StyleAnalysis{Style: Style{FormalityLevel: tt.incoming}},
			time.Now(),
		)
		if got.FormalityLevel != tt.want {
			t.Fatalf("merge(%d, %d) formality = %d, want %d", tt.existing, tt.incoming, got.FormalityLevel, tt.want)
		}
	}
}

func TestMergeProfileConfidenceClamps(t *testing.T) {
	profile := StyleProfile{ConfidenceScore: 0.9}
	var got []float64
	for i := 0; i < 3; i++ {
		profile = MergeProfile(profile, StyleAnalysis{}, time.Now())
		got = append(got, profile.ConfidenceScore)
	}
	if !reflect.DeepEqual(got, []float64{0.95, 0.95, 0.95}) {
		t.Fatalf("confidence sequence = %v", got)
	}

	profile = StyleProfile{ConfidenceScore: 0.5}
	profile = MergeProfile(profile, StyleAnalysis{}, time.Now())
	if !approxEqual(profile.ConfidenceScore, 0.55) {
		t.Fatalf("expected 0.55, got %v", profile.ConfidenceScore)
	}
}

func TestMergeProfileConfidenceKeepsPrecision(t *testing.T) {
	tests := []struct {
		current, want float64
	}{
		{current: 0.333, want: 0.383},
		{current: 0.7071, want: 0.7571},
		{current: 0.91, want: 0.95},
	}
	for _, tt := range tests {
		got := MergeProfile(StyleProfile{ConfidenceScore: tt.current}, StyleAnalysis{}, time.Now()).ConfidenceScore
		if !approxEqual(got, tt.want) {
			t.Fatalf("merge from %v: confidence = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMergeProfileScalarFields(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := StyleProfile{
		ID:        "p-1",
		UserID:    "u",
		CreatedAt: created,
		Style: Style{
			Tone:                 "formal",
			SentenceLength:       "long",
			VocabularyComplexity: "advanced",
			PunctuationStyle:     "standard",
			GreetingStyle:        "Dear Sir,",
			ClosingStyle:         "Regards,",
			WritingPatterns:      map[string]any{"paragraphs": "short", "emoji": false},
		},
		SamplesAnalyzed: 2,
	}
	incoming := StyleAnalysis{Style: Style{
		Tone:            "casual",
		GreetingStyle:   "  ",
		ClosingStyle:    "Cheers,",
		WritingPatterns: map[string]any{"emoji": true, "bullets": "often"},
	}}
	now := created.Add(48 * time.Hour)

	got := MergeProfile(existing, incoming, now)
	if got.Tone != "casual" || got.ClosingStyle != "Cheers," {
		t.Fatalf("expected incoming values to win, got %+v", got.Style)
	}
	if got.SentenceLength != "long" || got.VocabularyComplexity != "advanced" || got.PunctuationStyle != "standard" || got.GreetingStyle != "Dear Sir," {
		t.Fatalf("expected missing incoming values to keep existing, got %+v", got.Style)
	}
	wantPatterns := map[string]any{"paragraphs": "short", "emoji": true, "bullets": "often"}
	if !reflect.DeepEqual(got.WritingPatterns, wantPatterns) {
		t.Fatalf("writing patterns = %v", got.WritingPatterns)
	}
	if !got.UpdatedAt.Equal(now) || !got.CreatedAt.Equal(created) || got.ID != "p-1" {
		t.Fatalf("unexpected identity/timestamps %+v", got)
	}
	if got.SamplesAnalyzed != 3 {
		t.Fatalf("expected sample count 3, got %d", got.SamplesAnalyzed)
	}
}

func TestNewProfile(t *testing.T) {
	conf := 0.99
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p := NewProfile("p-1", "u", StyleAnalysis{
		Style: Style{
			FormalityLevel: 14,
			CommonPhrases:  phrases("c", 12),
			SignatureWords: phrases("s", 20),
		},
		ConfidenceScore: &conf,
	}, now)

	if p.FormalityLevel != 10 {
		t.Fatalf("expected clamped formality, got %d", p.FormalityLevel)
	}
	if len(p.CommonPhrases) != 10 || len(p.SignatureWords) != 15 {
		t.Fatalf("expected capped lists, got %d/%d", len(p.CommonPhrases), len(p.SignatureWords))
	}
	if p.ConfidenceScore != MaxConfidence {
		t.Fatalf("expected confidence clamped to 0.95, got %v", p.ConfidenceScore)
	}
	if p.WritingPatterns == nil {
		t.Fatalf("expected writing patterns map")
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) || p.SamplesAnalyzed != 1 {
		t.Fatalf("unexpected profile %+v", p)
	}

	p = NewProfile("p-2", "u", StyleAnalysis{}, now)
	if p.ConfidenceScore != InitialConfidence {
		t.Fatalf("expected initial confidence, got %v", p.ConfidenceScore)
	}
	if p.FormalityLevel != DefaultFormality {
		t.Fatalf("expected unreported formality to default to %d, got %d", DefaultFormality, p.FormalityLevel)
	}
}
