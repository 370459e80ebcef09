// internal/ranking/weighted.go
package ranking

import (
	"sort"
	"strings"

	"compare-workers/internal/models"
)

// WeightedSum scores items as a linear combination of their numeric
// attributes. Price-like attributes contribute their headroom below the
// most expensive item.
type WeightedSum struct{}

func NewWeightedSum() *WeightedSum {
	return &WeightedSum{}
}

func (w *WeightedSum) Name() string {
	return StrategyWeighted
}

func (w *WeightedSum) Rank(items []models.Item, req Request) *Result {
	if len(items) == 0 || len(req.Attributes) == 0 {
		return emptyResult(StrategyWeighted, OutcomeNothingToRank)
	}

	numeric := numericAttributes(req.Attributes)
	priceAttr := PriceAttribute(numeric)
	tieAttr := TieBreakAttribute(numeric)

	maxPrice := 0.0
	if priceAttr != "" {
		for i, item := range items {
			v := ToFloat(item.Attributes[priceAttr])
			if i == 0 || v > maxPrice {
				maxPrice = v
			}
		}
	}

	survivors := items
	if req.Budget != nil && priceAttr != "" {
		survivors = make([]models.Item, 0, len(items))
		for _, item := range items {
			if ToFloat(item.Attributes[priceAttr]) <= *req.Budget {
				survivors = append(survivors, item)
			}
		}
		if len(survivors) == 0 {
			return emptyResult(StrategyWeighted, OutcomeNoMatch)
		}
	}

	type row struct {
		scored ScoredItem
		tie    float64
	}
	rows := make([]row, 0, len(survivors))
	for _, item := range survivors {
		total := 0.0
		for _, def := range numeric {
			weight := req.Weights[def.Name]
			if weight == 0 {
				continue
			}
			value := ToFloat(item.Attributes[def.Name])
			if def.Name == priceAttr {
				total += (maxPrice - value) * weight
			} else {
				total += value * weight
			}
		}
		r := row{scored: ScoredItem{Item: item, Score: round2(total)}}
		if tieAttr != "" {
			r.tie = ToFloat(item.Attributes[tieAttr])
		}
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].scored.Score != rows[j].scored.Score {
			return rows[i].scored.Score > rows[j].scored.Score
		}
		return rows[i].tie > rows[j].tie
	})

	result := &Result{
		Strategy: StrategyWeighted,
		Outcome:  OutcomeRanked,
		Ranked:   make([]ScoredItem, len(rows)),
	}
	for i, r := range rows {
		result.Ranked[i] = r.scored
	}
	best := result.Ranked[0].Item
	result.Best = &best
	return result
}

func numericAttributes(defs []models.AttributeDefinition) []models.AttributeDefinition {
	out := make([]models.AttributeDefinition, 0, len(defs))
	for _, d := range defs {
		if d.IsNumeric() {
			out = append(out, d)
		}
	}
	return out
}

// IsPriceLike reports whether an attribute name reads as a price or cost.
func IsPriceLike(name string) bool {
	n := strings.ToLower(name)
	return n == "price" || strings.Contains(n, "price") || strings.Contains(n, "cost")
}

// PriceAttribute returns the first price-like numeric attribute, or "".
func PriceAttribute(numeric []models.AttributeDefinition) string {
	for _, d := range numeric {
		if IsPriceLike(d.Name) {
			return d.Name
		}
	}
	return ""
}

// TieBreakAttribute looks for a "performance" attribute first, then one
// naming a processor or benchmark. No match leaves ties in input order.
func TieBreakAttribute(numeric []models.AttributeDefinition) string {
	for _, d := range numeric {
		if strings.Contains(strings.ToLower(d.Name), "performance") {
			return d.Name
		}
	}
	for _, d := range numeric {
		n := strings.ToLower(d.Name)
		if strings.Contains(n, "processor") || strings.Contains(n, "benchmark") {
			return d.Name
		}
	}
	return ""
}
