package orgintel

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed prompts/analysis.txt
	analysisPrompt string
	//go:embed prompts/routing.txt
	routingPrompt string
)

const (
	systemPromptAnalysis = "You are an organizational intelligence analyst. Respond with JSON only. Use the field names exactly as given."
	systemPromptRouting  = "You are an email routing strategist for B2B outreach. Respond with JSON only. Use the field names exactly as given."
)

type analysisContact struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type routingContact struct {
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Department   string  `json:"department"`
	ResponseRate float64 `json:"responseRate"`
}

func buildAnalysisPrompt(contacts []ContactRecord) string {
	projected := make([]analysisContact, 0, len(contacts))
	for _, c := range contacts {
		projected = append(projected, analysisContact{
			Name:       c.Name(),
			Title:      c.Title,
			Email:      c.Email,
			Department: c.Department,
		})
	}
	return strings.NewReplacer(
		"{{CONTACTS}}", mustIndent(projected),
	).Replace(analysisPrompt)
}

func buildRoutingPrompt(emailContent string, contacts []ContactRecord, model OrganizationModel, goal string) string {
	projected := make([]routingContact, 0, len(contacts))
	for _, c := range contacts {
		rate := DefaultResponseRate
		if c.ResponseRate != nil {
			rate = *c.ResponseRate
		}
		projected = append(projected, routingContact{
			Name:         c.Name(),
			Title:        c.Title,
			Department:   c.Department,
			ResponseRate: rate,
		})
	}
	structure := model.StructureData
	if structure == nil {
		structure = StructureData{}
	}
	return strings.NewReplacer(
		"{{EMAIL_CONTENT}}", emailContent,
		"{{CONTACTS}}", mustIndent(projected),
		"{{STRUCTURE_DATA}}", mustIndent(structure),
		"{{ROUTING_GOAL}}", goal,
	).Replace(routingPrompt)
}

func mustIndent(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(out)
}
