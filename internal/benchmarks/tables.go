// internal/benchmarks/tables.go
package benchmarks

import (
	"strings"

	"compare-workers/internal/common/config"
	"compare-workers/internal/ranking"
)

// viper lowercases map keys, so derived attribute names come back from
// YAML as "processorscore"; map them back to the names the ranker derives.
var canonicalAttributes = map[string]string{
	strings.ToLower(ranking.AttrProcessorScore): ranking.AttrProcessorScore,
	strings.ToLower(ranking.AttrGPUScore):       ranking.AttrGPUScore,
}

func canonicalAttribute(name string) string {
	if c, ok := canonicalAttributes[strings.ToLower(name)]; ok {
		return c
	}
	return name
}

// TablesFromConfig builds ranking tables from the ranking config section.
// Any section left empty falls back to the built-in table.
func TablesFromConfig(cfg config.RankingConfig) ranking.Tables {
	profiles := ranking.DefaultProfiles()
	if len(cfg.Profiles) > 0 {
		profiles = make(map[string]map[string]float64, len(cfg.Profiles))
		for purpose, weights := range cfg.Profiles {
			p := make(map[string]float64, len(weights))
			for attr, w := range weights {
				p[canonicalAttribute(attr)] = w
			}
			profiles[purpose] = p
		}
	}

	processorFallback := cfg.ProcessorFallback
	if processorFallback == 0 {
		processorFallback = ranking.DefaultProcessorFallback
	}
	gpuFallback := cfg.GPUFallback
	if gpuFallback == 0 {
		gpuFallback = ranking.DefaultGPUFallback
	}

	processors := cfg.ProcessorScores
	if len(processors) == 0 {
		processors = ranking.DefaultProcessorScores()
	}
	gpus := cfg.GPUScores
	if len(gpus) == 0 {
		gpus = ranking.DefaultGPUScores()
	}

	return ranking.NewTables(profiles,
		ranking.NewScoreTable(processors, processorFallback),
		ranking.NewScoreTable(gpus, gpuFallback))
}

// NewSelector wires the strategy selector from the ranking config.
func NewSelector(tables ranking.Tables, cfg config.RankingConfig) *ranking.Selector {
	var opts []ranking.PurposeOption
	if cfg.TieTolerance > 0 {
		opts = append(opts, ranking.WithTieTolerance(cfg.TieTolerance))
	}
	return ranking.NewSelector(tables, cfg.CategoryStrategies, opts...)
}
