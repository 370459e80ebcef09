// internal/ranking/purpose_test.go
package ranking

import (
	"sync"
	"testing"

	"compare-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laptop(name string, price, ram, storage float64, cpu, gpu string) models.Item {
	attrs := map[string]interface{}{
		AttrPrice:   price,
		AttrRAM:     ram,
		AttrStorage: storage,
	}
	if cpu != "" {
		attrs[AttrProcessorName] = cpu
	}
	if gpu != "" {
		attrs[AttrGPUName] = gpu
	}
	return models.Item{ID: name, Name: name, Attributes: attrs}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPurposeConstrained_CodingScenario(t *testing.T) {
	items := []models.Item{laptop("dev-box", 1200, 16, 512, "Intel Core i7-1360P", "")}

	result := RankByPurpose("coding", nil, items)

	require.Equal(t, OutcomeRanked, result.Outcome)
	require.Len(t, result.Ranked, 1)
	assert.InDelta(t, 9*0.4+16*0.4+512*0.2, result.Ranked[0].Score, 1e-9)
	assert.InDelta(t, 112.4, result.Ranked[0].Score, 1e-9)
	assert.Equal(t, 9.0, result.Ranked[0].Item.Attributes[AttrProcessorScore])
	assert.Equal(t, 0.0, result.Ranked[0].Item.Attributes[AttrGPUScore])
	require.NotNil(t, result.Best)
	assert.Equal(t, "dev-box", result.Best.Name)
}

func TestPurposeConstrained_TieDetection(t *testing.T) {
	tables := NewTables(
		map[string]map[string]float64{"test": {AttrRAM: 1}},
		NewScoreTable(DefaultProcessorScores(), DefaultProcessorFallback),
		NewScoreTable(DefaultGPUScores(), DefaultGPUFallback),
	)
	ranker := NewPurposeConstrained(tables)
	items := []models.Item{
		laptop("low", 0, 6.0, 0, "", ""),
		laptop("close", 0, 7.8, 0, "", ""),
		laptop("top", 0, 8.1, 0, "", ""),
	}

	result := ranker.Rank(items, Request{Purpose: "test"})

	require.Len(t, result.Ranked, 3)
	assert.Equal(t, []string{"top", "close", "low"}, names(result))
	require.Len(t, result.TieGroup, 2)
	assert.Equal(t, "top", result.TieGroup[0].Item.Name)
	assert.Equal(t, "close", result.TieGroup[1].Item.Name)
	assert.True(t, result.HasTradeOff())
	assert.Contains(t, result.TradeOff, "top")
	assert.Contains(t, result.TradeOff, "close")
	assert.NotContains(t, result.TradeOff, "low")
}

func TestPurposeConstrained_SingleLeaderHasNoTradeOff(t *testing.T) {
	items := []models.Item{
		laptop("strong", 1500, 32, 1000, "i9", "rtx 4090"),
		laptop("weak", 400, 4, 128, "celeron", "integrated"),
	}

	result := RankByPurpose("gaming", nil, items)

	require.Len(t, result.TieGroup, 1)
	assert.Equal(t, "strong", result.TieGroup[0].Item.Name)
	assert.False(t, result.HasTradeOff())
}

func TestPurposeConstrained_RequirementFiltering(t *testing.T) {
	items := []models.Item{
		laptop("low-ram", 900, 4, 512, "i7", "rtx 4090"),
		laptop("integrated", 700, 16, 512, "i7", "Intel integrated graphics"),
		laptop("keeper", 1100, 16, 512, "i7", "RTX 3060"),
	}
	reqs := map[string]interface{}{"minRAM": 8, "requireDiscreteGPU": true}

	result := RankByPurpose("gaming", reqs, items)

	assert.Equal(t, []string{"keeper"}, names(result))
}

func TestPurposeConstrained_Filters(t *testing.T) {
	items := []models.Item{
		laptop("budget", 400, 8, 256, "i3", ""),
		laptop("mid", 800, 16, 512, "i5", "rtx 3050"),
		laptop("high", 2000, 32, 2000, "i9", "rtx 4080"),
	}

	tests := []struct {
		name           string
		requirements   map[string]interface{}
		expectedNames  []string
		expectedStatus Outcome
	}{
		{
			name:           "max budget",
			requirements:   map[string]interface{}{"maxBudget": 1000},
			expectedNames:  []string{"mid", "budget"},
			expectedStatus: OutcomeRanked,
		},
		{
			name:           "min budget",
			requirements:   map[string]interface{}{"minBudget": 500},
			expectedNames:  []string{"high", "mid"},
			expectedStatus: OutcomeRanked,
		},
		{
			name:           "min storage",
			requirements:   map[string]interface{}{"minStorage": "1000"},
			expectedNames:  []string{"high"},
			expectedStatus: OutcomeRanked,
		},
		{
			name:           "falsy keys are skipped",
			requirements:   map[string]interface{}{"minRAM": 0, "requireDiscreteGPU": false, "maxBudget": ""},
			expectedNames:  []string{"high", "mid", "budget"},
			expectedStatus: OutcomeRanked,
		},
		{
			name:           "over-constrained",
			requirements:   map[string]interface{}{"maxBudget": 300},
			expectedNames:  []string{},
			expectedStatus: OutcomeNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RankByPurpose("coding", tt.requirements, items)
			assert.Equal(t, tt.expectedStatus, result.Outcome)
			assert.Equal(t, tt.expectedNames, names(result))
			if tt.expectedStatus == OutcomeNoMatch {
				assert.Nil(t, result.Best)
				assert.Empty(t, result.TieGroup)
				assert.False(t, result.HasTradeOff())
			}
		})
	}
}

func TestPurposeConstrained_UnknownPurposeIsNeutral(t *testing.T) {
	items := []models.Item{
		laptop("a", 500, 8, 256, "i5", ""),
		laptop("b", 900, 16, 512, "i7", ""),
	}

	result := RankByPurpose("astronomy", nil, items)

	require.Len(t, result.Ranked, 2)
	for _, s := range result.Ranked {
		assert.Equal(t, 0.0, s.Score)
	}
	assert.Equal(t, []string{"a", "b"}, names(result))
	assert.Len(t, result.TieGroup, 2)
	assert.True(t, result.HasTradeOff())
}

func TestPurposeConstrained_PriceNormalization(t *testing.T) {
	items := []models.Item{
		laptop("pricey", 1000, 0, 0, "", ""),
		laptop("cheap", 500, 0, 0, "", ""),
	}

	result := RankByPurpose("student", nil, items)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "cheap", result.Ranked[0].Item.Name)
	assert.Equal(t, 0.5, result.Ranked[0].Score)
	assert.Equal(t, 0.0, result.Ranked[1].Score)
}

func TestPurposeConstrained_SingleSurvivorPriceRange(t *testing.T) {
	result := RankByPurpose("student", nil, []models.Item{laptop("only", 750, 8, 0, "", "")})

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 1.6, result.Ranked[0].Score)
}

func TestPurposeConstrained_EmptyInput(t *testing.T) {
	result := RankByPurpose("gaming", nil, nil)

	assert.Equal(t, OutcomeNothingToRank, result.Outcome)
	assert.Nil(t, result.Best)
}

func TestPurposeConstrained_PurposeKeyIsCaseInsensitive(t *testing.T) {
	items := []models.Item{laptop("x", 1000, 16, 512, "i7", "")}

	lower := RankByPurpose("coding", nil, items)
	mixed := RankByPurpose("  Coding ", nil, items)

	assert.Equal(t, lower.Ranked[0].Score, mixed.Ranked[0].Score)
}

// ==========================
// Immutability & Concurrency
// ==========================

func TestPurposeConstrained_DoesNotMutateInput(t *testing.T) {
	items := []models.Item{laptop("x", 1000, 16, 512, "i7", "rtx 4060")}

	_ = RankByPurpose("gaming", nil, items)

	_, hasCPU := items[0].Attributes[AttrProcessorScore]
	_, hasGPU := items[0].Attributes[AttrGPUScore]
	assert.False(t, hasCPU)
	assert.False(t, hasGPU)
}

func TestPurposeConstrained_Idempotent(t *testing.T) {
	items := []models.Item{
		laptop("a", 900, 16, 512, "ryzen 7", "rtx 4060"),
		laptop("b", 950, 16, 512, "i7", "rtx 4060"),
		laptop("c", 600, 8, 256, "i5", "integrated"),
	}
	reqs := map[string]interface{}{"maxBudget": 1000}

	assert.Equal(t, RankByPurpose("gaming", reqs, items), RankByPurpose("gaming", reqs, items))
}

func TestPurposeConstrained_ConcurrentCalls(t *testing.T) {
	ranker := NewPurposeConstrained(DefaultTables())
	items := []models.Item{
		laptop("a", 900, 16, 512, "ryzen 7", "rtx 4060"),
		laptop("b", 950, 32, 1000, "i9", "rtx 4080"),
	}
	req := Request{Purpose: "video_editing"}
	expected := ranker.Rank(items, req)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ranker.Rank(items, req)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

// ==========================
// Lookup Tables
// ==========================

func TestScoreTable_Lookup(t *testing.T) {
	table := NewScoreTable(map[string]float64{"rtx": 4, "rtx 3060": 9, "RTX 3060 Ti": 9.5}, DefaultGPUFallback)

	assert.Equal(t, 9.5, table.Lookup("NVIDIA GeForce RTX 3060 Ti"))
	assert.Equal(t, 9.0, table.Lookup("rtx 3060 laptop"))
	assert.Equal(t, 4.0, table.Lookup("RTX A500"))
	assert.Equal(t, DefaultGPUFallback, table.Lookup("Mystery GPU"))
	assert.Equal(t, 0.0, table.Lookup("   "))
}

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, []string{"coding", "gaming", "office", "student", "video_editing"}, tables.Purposes())
	assert.Equal(t, 9.0, tables.ProcessorScore("Intel i7"))
	assert.Equal(t, 7.0, tables.ProcessorScore("AMD Ryzen 5 7535HS"))
	assert.Equal(t, DefaultProcessorFallback, tables.ProcessorScore("Exynos"))
	assert.Equal(t, 9.0, tables.GPUScore("GeForce RTX 3060"))
	assert.Equal(t, 2.0, tables.GPUScore("integrated"))

	profile, ok := tables.Profile("gaming")
	require.True(t, ok)
	assert.Equal(t, Profile{
		{Attribute: AttrGPUScore, Weight: 0.4},
		{Attribute: AttrProcessorScore, Weight: 0.3},
		{Attribute: AttrRAM, Weight: 0.2},
		{Attribute: AttrStorage, Weight: 0.1},
	}, profile)

	_, ok = tables.Profile("unknown")
	assert.False(t, ok)
}

func TestTables_WithScoreTables(t *testing.T) {
	base := DefaultTables()
	custom := base.WithScoreTables(NewScoreTable(map[string]float64{"exynos": 6}, 1), ScoreTable{})

	assert.Equal(t, 6.0, custom.ProcessorScore("Exynos 2400"))
	assert.Equal(t, 1.0, custom.ProcessorScore("i7"))
	assert.Equal(t, 9.0, custom.GPUScore("rtx 3060"))
	assert.Equal(t, 9.0, base.ProcessorScore("i7"))
}

func TestRequirementsFromMap(t *testing.T) {
	reqs := RequirementsFromMap(map[string]interface{}{
		"minBudget":          "300",
		"maxBudget":          1200.5,
		"minRAM":             8,
		"minStorage":         nil,
		"requireDiscreteGPU": "yes",
	})

	assert.Equal(t, Requirements{MinBudget: 300, MaxBudget: 1200.5, MinRAM: 8, RequireDiscreteGPU: true}, reqs)
	assert.Equal(t, map[string]interface{}{
		"minBudget":          300.0,
		"maxBudget":          1200.5,
		"minRAM":             8.0,
		"requireDiscreteGPU": true,
	}, reqs.ToMap())
	assert.True(t, RequirementsFromMap(nil).IsZero())
}
