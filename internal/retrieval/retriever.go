package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brandonsmith301/text-to-sql/internal/encoder"
	"github.com/brandonsmith301/text-to-sql/internal/schema"
)

// ErrEmptyQuestion reports a blank question. Scoring an empty question would
// produce a meaningless similarity distribution, so it is rejected up front
// as a typed error rather than silently returning noise.
var ErrEmptyQuestion = errors.New("retrieval: question is empty")

const defaultThresholdMargin = 0.05

// Retriever runs the two-stage pipeline: score every table and column
// comment against the question, derive an adaptive threshold from the pooled
// score distribution, prune, then repair referential integrity.
type Retriever struct {
	Encoder encoder.Encoder
	Logger  *slog.Logger

	// ThresholdMargin lowers the pooled mean by this fraction of itself to
	// broaden recall; the downstream model copes better with slightly too
	// much context than too little. Zero means the 5% default.
	ThresholdMargin float64
}

// Result is the transient outcome of one retrieval call. Nothing here is
// persisted; the threshold is derived from scratch on every call.
type Result struct {
	Context     string       `json:"context"`
	Pruned      PrunedResult `json:"pruned"`
	Mean        float64      `json:"mean"`
	Threshold   float64      `json:"threshold"`
	ItemsScored int          `json:"items_scored"`
}

func (r *Retriever) Retrieve(ctx context.Context, question string, model schema.Model) (Result, error) {
	start := time.Now()
	result, err := r.retrieve(ctx, question, model)
	observeRetrieval(err, len(result.Pruned.Tables), time.Since(start))
	return result, err
}

func (r *Retriever) retrieve(ctx context.Context, question string, model schema.Model) (Result, error) {
	if strings.TrimSpace(question) == "" {
		return Result{}, ErrEmptyQuestion
	}
	if model.Empty() {
		// Zero scoreable items: the pooled mean is undefined, so degrade to
		// "no relevant context" instead of dividing by zero.
		r.logger().DebugContext(ctx, "retrieval skipped: empty schema model")
		return Result{}, nil
	}

	questionVec, err := r.encode(ctx, question)
	if err != nil {
		return Result{}, err
	}

	scores := make([]tableScore, len(model.Tables))
	var pooled []float64
	for i, table := range model.Tables {
		tableVec, err := r.encode(ctx, table.Comment)
		if err != nil {
			return Result{}, err
		}
		scores[i].table = Cosine(questionVec, tableVec)
		pooled = append(pooled, scores[i].table)

		scores[i].columns = make([]float64, len(table.Columns))
		for j, column := range table.Columns {
			columnVec, err := r.encode(ctx, column.Comment)
			if err != nil {
				return Result{}, err
			}
			scores[i].columns[j] = Cosine(questionVec, columnVec)
			pooled = append(pooled, scores[i].columns[j])
		}
	}

	var sum float64
	for _, score := range pooled {
		sum += score
	}
	mean := sum / float64(len(pooled))
	threshold := mean - mean*r.margin()

	pruned := pruneWithThreshold(model, scores, threshold)
	injected := InjectKeyColumns(pruned, model)

	result := Result{
		Context:     FormatContext(injected),
		Pruned:      injected,
		Mean:        mean,
		Threshold:   threshold,
		ItemsScored: len(pooled),
	}
	r.logger().DebugContext(ctx, "retrieval complete",
		slog.Int("items_scored", result.ItemsScored),
		slog.Int("tables_retained", len(result.Pruned.Tables)),
		slog.Float64("threshold", result.Threshold),
	)
	return result, nil
}

type tableScore struct {
	table   float64
	columns []float64
}

// pruneWithThreshold applies strict greater-than selection: a table survives
// only if its own comment score beats the threshold, and then only with the
// columns that also beat it. Ties at the threshold are excluded, and a table
// whose columns all fall away is dropped entirely.
func pruneWithThreshold(model schema.Model, scores []tableScore, threshold float64) PrunedResult {
	var pruned PrunedResult
	for i, table := range model.Tables {
		if !(scores[i].table > threshold) {
			continue
		}
		var columns []string
		for j, column := range table.Columns {
			if scores[i].columns[j] > threshold {
				columns = append(columns, column.Name)
			}
		}
		if len(columns) == 0 {
			continue
		}
		pruned.Tables = append(pruned.Tables, TableColumns{Table: table.Name, Columns: columns})
	}
	return pruned
}

func (r *Retriever) encode(ctx context.Context, text string) ([]float32, error) {
	// Embedding backends reject empty input. A nil vector scores 0 against
	// everything, which is the right rank for a blank comment.
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	start := time.Now()
	vector, err := r.Encoder.Encode(ctx, text)
	observeEncode(err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return vector, nil
}

func (r *Retriever) margin() float64 {
	if r.ThresholdMargin > 0 {
		return r.ThresholdMargin
	}
	return defaultThresholdMargin
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
