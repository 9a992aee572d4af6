// Package types provides type definitions for structured data used throughout the suggestion engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/jonathan/context-suggester/internal/features"
)

// RankedSuggestion is one entry of a subcategory's top-N list.
type RankedSuggestion struct {
	Rank          int            `json:"rank"`
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// SubcategoryResult is the ranked list for one (category, subcategory) pair.
// Empty is set when no eligible suggestion remains after veto filtering.
type SubcategoryResult struct {
	Name     string             `json:"name"`
	Items    []RankedSuggestion `json:"items"`
	Empty    bool               `json:"empty"`
	Eligible int                `json:"eligible"`
	Vetoed   int                `json:"vetoed"`
}

// CategoryResult groups the subcategories of one category.
type CategoryResult struct {
	Name          string              `json:"name"`
	Subcategories []SubcategoryResult `json:"subcategories"`
}

// GroupedResults is the ordered category -> subcategory -> top-N structure.
type GroupedResults struct {
	TopN       int              `json:"top_n"`
	Categories []CategoryResult `json:"categories"`
}

// Lookup finds a subcategory result by category and subcategory name.
func (g *GroupedResults) Lookup(category, subcategory string) (*SubcategoryResult, bool) {
	for ci := range g.Categories {
		if g.Categories[ci].Name != category {
			continue
		}
		for si := range g.Categories[ci].Subcategories {
			if g.Categories[ci].Subcategories[si].Name == subcategory {
				return &g.Categories[ci].Subcategories[si], true
			}
		}
	}
	return nil, false
}

// IssueKind classifies a non-fatal problem surfaced in the report.
type IssueKind string

// Issue kinds
const (
	IssueSupplier IssueKind = "supplier"
	IssueCatalog  IssueKind = "catalog"
	IssueScoring  IssueKind = "scoring"
	IssueOutput   IssueKind = "output"
)

// Issue is a non-fatal problem that was counted and skipped.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Source  string    `json:"source,omitempty"`
	Message string    `json:"message"`
}

// FeatureActivation is one named dimension of the context vector.
type FeatureActivation struct {
	Feature features.Key   `json:"feature"`
	Group   features.Group `json:"group"`
	Value   float64        `json:"value"`
}

// Location is where conditions were read for.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// RunStats counts what happened to the catalog during a run.
type RunStats struct {
	Files        int `json:"files"`
	FilesSkipped int `json:"files_skipped"`
	Loaded       int `json:"loaded"`
	Rejected     int `json:"rejected"`
	Scored       int `json:"scored"`
	Vetoed       int `json:"vetoed"`
}

// Report is the complete result of one invocation.
type Report struct {
	RunID          string              `json:"run_id"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Location       Location            `json:"location"`
	Conditions     Conditions          `json:"conditions"`
	Degraded       bool                `json:"degraded"`
	ActiveFeatures []FeatureActivation `json:"active_features"`
	Results        GroupedResults      `json:"results"`
	Stats          RunStats            `json:"stats"`
	Issues         []Issue             `json:"issues"`
}
