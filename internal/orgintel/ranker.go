package orgintel

// Ranker picks a routing path without consulting the model.
type Ranker interface {
	Rank(contacts []ContactRecord) RoutingRecommendation
}

const (
	heuristicStrategy   = "Start with the most responsive contact, then escalate to a decision maker."
	heuristicConfidence = 0.6
	heuristicSuccess    = 0.4
)

var heuristicReasons = []string{"High response rate", "Decision maker"}

// HeuristicRanker routes to the first two contacts in the order given.
type HeuristicRanker struct{}

func (HeuristicRanker) Rank(contacts []ContactRecord) RoutingRecommendation {
	return HeuristicPath(contacts)
}

// HeuristicPath returns the deterministic path used when the model replies
// without any JSON. It has at most two entries.
func HeuristicPath(contacts []ContactRecord) RoutingRecommendation {
	path := make([]RoutingStep, 0, len(heuristicReasons))
	for i, reason := range heuristicReasons {
		if i >= len(contacts) {
			break
		}
		path = append(path, RoutingStep{
			ContactName: contacts[i].Name(),
			Reason:      reason,
			Order:       i + 1,
		})
	}
	return RoutingRecommendation{
		Path:                path,
		Strategy:            heuristicStrategy,
		ConfidenceScore:     heuristicConfidence,
		ExpectedSuccessRate: heuristicSuccess,
	}
}
