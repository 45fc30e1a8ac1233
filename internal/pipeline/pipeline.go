package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Middleware processes a record and returns the (possibly modified) record.
// Return nil to drop the record from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a record. Return nil to drop the record.
	Process(ctx context.Context, rec *types.ArticleRecord) (*types.ArticleRecord, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order. A panicking stage
// is reported as a PipelineError like any other failure.
func (p *Pipeline) Process(ctx context.Context, rec *types.ArticleRecord) (out *types.ArticleRecord, err error) {
	current := rec
	stage := ""

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &types.PipelineError{Stage: stage, URL: rec.URL, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for _, mw := range p.middlewares {
		stage = mw.Name()
		if err := ctx.Err(); err != nil {
			return nil, &types.PipelineError{Stage: stage, URL: rec.URL, Err: err}
		}
		result, err := mw.Process(ctx, current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage: stage,
				URL:   rec.URL,
				Err:   err,
			}
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", stage, "url", rec.URL)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// Names returns the middleware names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.middlewares))
	for i, mw := range p.middlewares {
		names[i] = mw.Name()
	}
	return names
}
