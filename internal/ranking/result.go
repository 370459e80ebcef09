// internal/ranking/result.go
package ranking

import "compare-workers/internal/models"

// Outcome distinguishes a ranking from the two "no result" states callers
// must present differently.
type Outcome string

const (
	OutcomeRanked        Outcome = "ranked"
	OutcomeNothingToRank Outcome = "nothing_to_rank"
	OutcomeNoMatch       Outcome = "no_match"
)

type ScoredItem struct {
	Item  models.Item `json:"item"`
	Score float64     `json:"score"`
}

type Result struct {
	Strategy string       `json:"strategy"`
	Outcome  Outcome      `json:"outcome"`
	Ranked   []ScoredItem `json:"ranked"`
	Best     *models.Item `json:"best,omitempty"`
	TieGroup []ScoredItem `json:"tieGroup,omitempty"`
	TradeOff string       `json:"tradeOff,omitempty"`
}

func emptyResult(strategy string, outcome Outcome) *Result {
	return &Result{
		Strategy: strategy,
		Outcome:  outcome,
		Ranked:   []ScoredItem{},
	}
}

func (r *Result) Empty() bool {
	return r == nil || len(r.Ranked) == 0
}

func (r *Result) HasTradeOff() bool {
	return r != nil && r.TradeOff != ""
}

// Scores returns the ranked names and scores in order, the shape charts use.
func (r *Result) Scores() ([]string, []float64) {
	if r == nil {
		return nil, nil
	}
	labels := make([]string, len(r.Ranked))
	scores := make([]float64, len(r.Ranked))
	for i, s := range r.Ranked {
		labels[i] = s.Item.Name
		scores[i] = s.Score
	}
	return labels, scores
}
