package orgintel

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Seniority buckets a department by the rank of its head.
type Seniority string

const (
	SeniorityCSuite     Seniority = "c_suite"
	SeniorityVP         Seniority = "vp"
	SeniorityDirector   Seniority = "director"
	SeniorityManager    Seniority = "manager"
	SeniorityIndividual Seniority = "individual"
)

// DefaultResponseRate is assumed for contacts with no recorded response rate.
const DefaultResponseRate = 0.5

// ContactRecord is a contact as supplied by the contact store.
type ContactRecord struct {
	ID           string   `json:"id,omitempty"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Title        string   `json:"title,omitempty"`
	Email        string   `json:"email,omitempty"`
	Department   string   `json:"department,omitempty"`
	ResponseRate *float64 `json:"response_rate,omitempty"`
}

// Name joins first and last name.
func (c ContactRecord) Name() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// ContactRef identifies a contact inside a model. Models often answer with a
// bare name string, so both forms decode.
type ContactRef struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
}

func (r *ContactRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*r = ContactRef{Name: name}
		return nil
	}
	type plain ContactRef
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*r = ContactRef(out)
	return nil
}

// Department is one functional group in the org model.
type Department struct {
	Name      string       `json:"name"`
	Head      *ContactRef  `json:"head"`
	Members   []ContactRef `json:"members"`
	Seniority Seniority    `json:"seniority,omitempty"`
}

// StructureData is the narrative description of the org ({orgChart, decisionFlow, communicationPatterns}).
type StructureData map[string]any

// OrganizationModel is the analyzed structure of one company.
type OrganizationModel struct {
	CompanyID       string        `json:"companyId,omitempty"`
	HierarchyLevels int           `json:"hierarchyLevels"`
	Departments     []Department  `json:"departments"`
	DecisionMakers  []ContactRef  `json:"decisionMakers"`
	Influencers     []ContactRef  `json:"influencers,omitempty"`
	Gatekeepers     []ContactRef  `json:"gatekeepers,omitempty"`
	StructureData   StructureData `json:"structureData"`
	ConfidenceScore float64       `json:"confidenceScore"`
}

// RoutingStep is one hop of a recommended routing path.
type RoutingStep struct {
	ContactName string `json:"contactName"`
	Reason      string `json:"reason"`
	Order       int    `json:"order"`
}

// RoutingRecommendation is the ranked path for reaching a company with an email.
type RoutingRecommendation struct {
	Path                []RoutingStep `json:"path"`
	Strategy            string        `json:"strategy"`
	ConfidenceScore     float64       `json:"confidenceScore"`
	ExpectedSuccessRate float64       `json:"expectedSuccessRate"`
}

// OrganizationMap is the stored analysis for one (user, company) pair.
type OrganizationMap struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	CompanyID string            `json:"companyId"`
	Model     OrganizationModel `json:"model"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// RoutingInput is the request for a routing recommendation.
type RoutingInput struct {
	TargetCompanyID string          `json:"targetCompanyId"`
	EmailContent    string          `json:"emailContent"`
	Contacts        []ContactRecord `json:"contacts"`
	RoutingGoal     string          `json:"routingGoal"`
}
