// internal/workers/comparison/rank-items/models.go
package rankitems

import (
	"context"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/models"
	"compare-workers/internal/ranking"
)

// Input names either a stored session or the items directly. Preferences,
// when given, replace the ones stored with the session.
type Input struct {
	SessionID   string              `json:"sessionId,omitempty"`
	CategoryID  int64               `json:"categoryId,omitempty"`
	ItemIDs     []string            `json:"itemIds,omitempty"`
	Preferences *models.Preferences `json:"preferences,omitempty"`
}

type RankedRow struct {
	Rank       int                    `json:"rank"`
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Score      float64                `json:"score"`
	Attributes map[string]interface{} `json:"attributes"`
}

type Chart struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Output doubles as the input of generate-explanation, so the preferences
// used for ranking are echoed back.
type Output struct {
	SessionID    string                 `json:"sessionId,omitempty"`
	CategoryID   int64                  `json:"categoryId"`
	Category     string                 `json:"category"`
	Strategy     string                 `json:"strategy"`
	Outcome      string                 `json:"outcome"`
	Message      string                 `json:"message,omitempty"`
	RankedItems  []RankedRow            `json:"rankedItems"`
	BestItem     *models.Item           `json:"bestItem"`
	BestItemName string                 `json:"bestItemName,omitempty"`
	TieGroup     []string               `json:"tieGroup"`
	TradeOff     string                 `json:"tradeOff,omitempty"`
	Chart        Chart                  `json:"chart"`
	Purpose      string                 `json:"purpose,omitempty"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
	Weights      map[string]float64     `json:"weights,omitempty"`
	Budget       interface{}            `json:"budget,omitempty"`
}

type SessionLoader interface {
	Load(ctx context.Context, id string) (*models.ComparisonSession, error)
}

type ServiceDependencies struct {
	Sessions   SessionLoader
	Categories catalog.Categories
	Attributes catalog.AttributeCatalog
	Items      catalog.ItemStore
	Selector   *ranking.Selector
	Logger     logger.Logger
}
