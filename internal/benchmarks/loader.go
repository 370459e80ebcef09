// internal/benchmarks/loader.go
package benchmarks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/ranking"
)

const (
	KindProcessor = "processor"
	KindGPU       = "gpu"

	maxBenchmarkDocs = 1000
)

// Benchmark is one document of the benchmark index.
type Benchmark struct {
	Kind    string  `json:"kind"`
	Pattern string  `json:"pattern"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Benchmark `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Loader reads processor and GPU scores from an Elasticsearch index.
type Loader struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewLoader(client *elasticsearch.Client, index string, log logger.Logger) *Loader {
	return &Loader{client: client, index: index, logger: log}
}

// Fetch returns every benchmark document in the index.
func (l *Loader) Fetch(ctx context.Context) ([]Benchmark, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	})
	size := maxBenchmarkDocs
	req := esapi.SearchRequest{
		Index: []string{l.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, l.client)
	if err != nil {
		return nil, errors.NewBenchmarkLoadFailedError(l.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewBenchmarkLoadFailedError(l.index, fmt.Errorf("search: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewBenchmarkLoadFailedError(l.index, fmt.Errorf("decode: %w", err))
	}

	out := make([]Benchmark, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Apply overrides the score tables of base with the indexed benchmarks.
// A kind with no documents keeps the base table.
func (l *Loader) Apply(ctx context.Context, base ranking.Tables, processorFallback, gpuFallback float64) (ranking.Tables, error) {
	docs, err := l.Fetch(ctx)
	if err != nil {
		return base, err
	}

	processors := map[string]float64{}
	gpus := map[string]float64{}
	skipped := 0
	for _, d := range docs {
		if strings.TrimSpace(d.Pattern) == "" {
			skipped++
			continue
		}
		switch strings.ToLower(d.Kind) {
		case KindProcessor:
			processors[d.Pattern] = d.Score
		case KindGPU:
			gpus[d.Pattern] = d.Score
		default:
			skipped++
		}
	}

	if processorFallback == 0 {
		processorFallback = ranking.DefaultProcessorFallback
	}
	if gpuFallback == 0 {
		gpuFallback = ranking.DefaultGPUFallback
	}

	l.logger.Info("benchmark tables loaded", map[string]interface{}{
		"index":      l.index,
		"processors": len(processors),
		"gpus":       len(gpus),
		"skipped":    skipped,
	})

	return base.WithScoreTables(
		ranking.NewScoreTable(processors, processorFallback),
		ranking.NewScoreTable(gpus, gpuFallback),
	), nil
}
