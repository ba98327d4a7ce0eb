package styleprofile

import (
	"math"
	"strings"
	"time"
)

const (
	MaxCommonPhrases  = 10
	MaxSignatureWords = 15

	MaxConfidence       = 0.95
	ConfidenceIncrement = 0.05
	InitialConfidence   = 0.5

	// DefaultFormality stands in when no sample reported a formality level.
	DefaultFormality = 5

	minFormality = 1
	maxFormality = 10
)

// NewProfile builds the first profile for a user from a single analysis.
func NewProfile(id, userID string, analysis StyleAnalysis, now time.Time) StyleProfile {
	confidence := InitialConfidence
	if analysis.ConfidenceScore != nil {
		confidence = clampFloat(*analysis.ConfidenceScore, 0, MaxConfidence)
	}
	style := analysis.Style
	style.FormalityLevel = clampFormality(style.FormalityLevel)
	style.CommonPhrases = capped(nil, style.CommonPhrases, MaxCommonPhrases)
	style.SignatureWords = capped(nil, style.SignatureWords, MaxSignatureWords)
	style.WritingPatterns = mergePatterns(nil, style.WritingPatterns)

	now = now.UTC()
	return StyleProfile{
		ID:              id,
		UserID:          userID,
		Style:           style,
		ConfidenceScore: confidence,
		SamplesAnalyzed: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MergeProfile folds incoming into existing and returns the new profile.
// existing is not modified.
//
// Scalar fields take the incoming value when it is non-empty. Formality is
// averaged and rounded half away from zero; a zero on either side counts as
// unreported. Phrase and word lists keep the
// first N entries of existing followed by incoming, so once a list is full
// new entries are dropped. Confidence grows by a fixed step up to 0.95.
func MergeProfile(existing StyleProfile, incoming StyleAnalysis, now time.Time) StyleProfile {
	out := existing
	out.Tone = prefer(incoming.Tone, existing.Tone)
	out.SentenceLength = prefer(incoming.SentenceLength, existing.SentenceLength)
	out.VocabularyComplexity = prefer(incoming.VocabularyComplexity, existing.VocabularyComplexity)
	out.PunctuationStyle = prefer(incoming.PunctuationStyle, existing.PunctuationStyle)
	out.GreetingStyle = prefer(incoming.GreetingStyle, existing.GreetingStyle)
	out.ClosingStyle = prefer(incoming.ClosingStyle, existing.ClosingStyle)
	out.FormalityLevel = blendFormality(existing.FormalityLevel, incoming.FormalityLevel)
	out.CommonPhrases = capped(existing.CommonPhrases, incoming.CommonPhrases, MaxCommonPhrases)
	out.SignatureWords = capped(existing.SignatureWords, incoming.SignatureWords, MaxSignatureWords)
	out.WritingPatterns = mergePatterns(existing.WritingPatterns, incoming.WritingPatterns)
	out.ConfidenceScore = nextConfidence(existing.ConfidenceScore)
	out.SamplesAnalyzed = existing.SamplesAnalyzed + 1
	out.UpdatedAt = now.UTC()
	return out
}

func prefer(incoming, existing string) string {
	if strings.TrimSpace(incoming) != "" {
		return incoming
	}
	return existing
}

func blendFormality(existing, incoming int) int {
	switch {
	case incoming == 0:
		return clampFormality(existing)
	case existing == 0:
		return clampFormality(incoming)
	}
	return clampFormality(int(math.Round(float64(existing+incoming) / 2)))
}

// clampFormality bounds v to 1..10. Zero means the model did not report a
// level and maps to DefaultFormality.
func clampFormality(v int) int {
	if v == 0 {
		return DefaultFormality
	}
	if v < minFormality {
		return minFormality
	}
	if v > maxFormality {
		return maxFormality
	}
	return v
}

// capped returns the first limit entries of existing followed by incoming in a new slice.
func capped(existing, incoming []string, limit int) []string {
	out := make([]string, 0, min(len(existing)+len(incoming), limit))
	for _, list := range [][]string{existing, incoming} {
		for _, v := range list {
			if len(out) == limit {
				return out
			}
			out = append(out, v)
		}
	}
	return out
}

func mergePatterns(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

func nextConfidence(current float64) float64 {
	return clampFloat(current+ConfidenceIncrement, 0, MaxConfidence)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
