package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/context-suggester/internal/types"
)

// DefaultTopN is the number of suggestions kept per subcategory.
const DefaultTopN = 3

type groupKey struct {
	category    string
	subcategory string
}

// Aggregate partitions scored suggestions by (category, subcategory) and keeps the top N of each.
//
// Vetoed suggestions never appear in a list, but their subcategory is still reported, flagged Empty
// when nothing eligible remains. Within a subcategory, higher scores rank first; equal scores fall back
// to catalog order and then ID. Categories and subcategories are sorted by name.
func Aggregate(scored []types.ScoredSuggestion, topN int) types.GroupedResults {
	if topN <= 0 {
		topN = DefaultTopN
	}

	buckets := make(map[groupKey][]types.ScoredSuggestion)
	vetoed := make(map[groupKey]int)
	for _, s := range scored {
		key := groupKey{category: s.Suggestion.Category, subcategory: s.Suggestion.Subcategory}
		if _, ok := buckets[key]; !ok {
			buckets[key] = nil
		}
		if s.Vetoed {
			vetoed[key]++
			continue
		}
		buckets[key] = append(buckets[key], s)
	}

	byCategory := make(map[string][]string)
	for key := range buckets {
		byCategory[key.category] = append(byCategory[key.category], key.subcategory)
	}

	categories := make([]string, 0, len(byCategory))
	for name := range byCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	results := types.GroupedResults{TopN: topN, Categories: make([]types.CategoryResult, 0, len(categories))}
	for _, cat := range categories {
		subs := byCategory[cat]
		sort.Strings(subs)

		catResult := types.CategoryResult{Name: cat, Subcategories: make([]types.SubcategoryResult, 0, len(subs))}
		for _, sub := range subs {
			key := groupKey{category: cat, subcategory: sub}
			items := buckets[key]
			sortScored(items)

			subResult := types.SubcategoryResult{
				Name:     sub,
				Items:    []types.RankedSuggestion{},
				Eligible: len(items),
				Vetoed:   vetoed[key],
				Empty:    len(items) == 0,
			}
			for i, s := range items {
				if i >= topN {
					break
				}
				subResult.Items = append(subResult.Items, types.RankedSuggestion{
					Rank:          i + 1,
					ID:            s.Suggestion.Identity(),
					Text:          s.Suggestion.Text,
					Score:         s.Score,
					Contributions: s.Contributions,
				})
			}
			catResult.Subcategories = append(catResult.Subcategories, subResult)
		}
		results.Categories = append(results.Categories, catResult)
	}

	return results
}

func sortScored(items []types.ScoredSuggestion) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Suggestion.Index != b.Suggestion.Index {
			return a.Suggestion.Index < b.Suggestion.Index
		}
		return a.Suggestion.Identity() < b.Suggestion.Identity()
	})
}

// Label returns the display label for a subcategory, "Category > Subcategory".
func Label(category, subcategory string) string {
	return fmt.Sprintf("%s > %s", category, subcategory)
}

// Explain creates a brief explanation of a ranked suggestion from its strongest contributions.
func Explain(contributions []types.Contribution, limit int) string {
	if len(contributions) == 0 {
		return "No matching context"
	}

	sorted := make([]types.Contribution, len(contributions))
	copy(sorted, contributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Value) > math.Abs(sorted[j].Value)
	})

	var pos, neg []string
	for i, c := range sorted {
		if limit > 0 && i >= limit {
			break
		}
		if c.Value > 0 {
			pos = append(pos, string(c.Feature))
		} else {
			neg = append(neg, string(c.Feature))
		}
	}

	var parts []string
	if len(pos) > 0 {
		parts = append(parts, fmt.Sprintf("fits %s", strings.Join(pos, ", ")))
	}
	if len(neg) > 0 {
		parts = append(parts, fmt.Sprintf("against %s", strings.Join(neg, ", ")))
	}
	return strings.Join(parts, "; ")
}
