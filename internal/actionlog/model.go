package actionlog

import "time"

// Action types recorded by the inference pipelines.
const (
	ActionOrgAnalysis   = "org_analysis"
	ActionEmailRouting  = "email_routing"
	ActionStyleAnalysis = "style_analysis"
	ActionStyleMirror   = "style_mirror"
)

// Entry is one append-only action-log record.
type Entry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	ActionType string         `json:"actionType"`
	Details    map[string]any `json:"details"`
	Timestamp  time.Time      `json:"timestamp"`
}
