package styleprofile

import (
	_ "embed"
	"strconv"
	"strings"
)

var (
	//go:embed prompts/analysis.txt
	analysisPrompt string
	//go:embed prompts/mirror.txt
	mirrorPrompt string
)

const (
	systemPromptAnalysis = "You are a writing style analyst. Respond with JSON only. Use the field names exactly as given."
	systemPromptMirror   = "You are a ghostwriter who rewrites text to match a person's writing style."
)

func buildAnalysisPrompt(sample string) string {
	return strings.NewReplacer("{{SAMPLE}}", sample).Replace(analysisPrompt)
}

func buildMirrorPrompt(original string, profile StyleProfile, targetType string) string {
	return strings.NewReplacer(
		"{{TARGET_TYPE}}", targetType,
		"{{TONE}}", orUnspecified(profile.Tone),
		"{{FORMALITY}}", strconv.Itoa(profile.FormalityLevel),
		"{{SENTENCE_LENGTH}}", orUnspecified(profile.SentenceLength),
		"{{VOCABULARY}}", orUnspecified(profile.VocabularyComplexity),
		"{{PUNCTUATION}}", orUnspecified(profile.PunctuationStyle),
		"{{GREETING}}", orUnspecified(profile.GreetingStyle),
		"{{CLOSING}}", orUnspecified(profile.ClosingStyle),
		"{{PHRASES}}", joinQuoted(profile.CommonPhrases),
		"{{SIGNATURE_WORDS}}", joinQuoted(profile.SignatureWords),
		"{{ORIGINAL}}", original,
	).Replace(mirrorPrompt)
}

func orUnspecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unspecified"
	}
	return v
}

func joinQuoted(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
