package styleprofile

import "time"

// Allowed values for the enumerated style fields.
var (
	Tones                  = []string{"professional", "casual", "friendly", "formal", "conversational"}
	SentenceLengths        = []string{"short", "medium", "long", "varied"}
	VocabularyComplexities = []string{"simple", "moderate", "advanced", "technical"}
	PunctuationStyles      = []string{"minimal", "standard", "expressive"}
)

// Style is the field set shared by an analysis and a stored profile.
type Style struct {
	Tone                 string         `json:"tone"`
	FormalityLevel       int            `json:"formalityLevel"`
	SentenceLength       string         `json:"sentenceLength"`
	VocabularyComplexity string         `json:"vocabularyComplexity"`
	PunctuationStyle     string         `json:"punctuationStyle"`
	GreetingStyle        string         `json:"greetingStyle"`
	ClosingStyle         string         `json:"closingStyle"`
	CommonPhrases        []string       `json:"commonPhrases"`
	SignatureWords       []string       `json:"signatureWords"`
	WritingPatterns      map[string]any `json:"writingPatterns"`
}

// StyleAnalysis is the model's reading of a single writing sample.
type StyleAnalysis struct {
	Style
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
}

// StyleProfile is the accumulated voice profile of one user.
type StyleProfile struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Style
	ConfidenceScore float64   `json:"confidenceScore"`
	SamplesAnalyzed int       `json:"samplesAnalyzed"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
