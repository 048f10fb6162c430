// Package engine wires the full pipeline: parse, dispatch, normalize, build
// context, handle edge cases, compile facts, render.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/dispatch"
	"github.com/hyperjump/eiga/internal/metrics"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/parser"
	"github.com/hyperjump/eiga/internal/respond"
)

// Engine is the pipeline entry point. All state is request-local; the only
// shared resource is the store behind the dispatcher, which handles its own
// concurrent reads.
type Engine struct {
	parser     *parser.Parser
	dispatcher *dispatch.Dispatcher
	pcfg       config.PipelineConfig
	logger     *zap.Logger
}

// New creates an Engine from an already-wired parser and dispatcher.
func New(p *parser.Parser, d *dispatch.Dispatcher, pcfg config.PipelineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{parser: p, dispatcher: d, pcfg: pcfg, logger: logger}
}

// Parse runs only the understanding half: text in, typed intent and slots out.
func (e *Engine) Parse(text string) models.ParseResponse {
	return models.ParseResponse{Parsed: e.parser.Parse(text)}
}

// Execute runs parse plus dispatch plus normalization, returning the
// machine-readable results without a rendered answer.
func (e *Engine) Execute(ctx context.Context, req models.AskRequest) (*models.ExecuteResponse, error) {
	if err := req.Validate(e.pcfg.MaxLimit); err != nil {
		return nil, err
	}
	parsed := e.parser.Parse(req.Text)
	applyLimitOverride(&parsed, req.Limit)

	rs, _, err := e.runUnderstanding(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return &models.ExecuteResponse{
		Parsed:  parsed,
		Results: rs.Results,
		Found:   rs.Found,
	}, nil
}

// Ask runs the complete pipeline and returns the structured results plus the
// rendered conversational answer.
func (e *Engine) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	start := time.Now()
	if err := req.Validate(e.pcfg.MaxLimit); err != nil {
		return nil, err
	}
	requestID := uuid.New().String()

	parsed := e.parser.Parse(req.Text)
	applyLimitOverride(&parsed, req.Limit)

	rs, cctx, err := e.runUnderstanding(ctx, parsed)
	if err != nil {
		return nil, err
	}

	flags := respond.ApplyEdgeCases(rs, cctx, e.pcfg)
	if flags.SeedMissing {
		flags.Suggestions = mergeTitleSuggestions(
			e.dispatcher.SuggestTitles(parsed.Slots.Title), flags.Suggestions)
	}

	sheet := respond.CompileFacts(rs, cctx, e.pcfg)
	answer := respond.Render(sheet, flags, parsed.Intent)

	elapsed := time.Since(start)
	metrics.ObserveQuery(string(parsed.Intent), flags.EdgeNotes, elapsed)
	e.logger.Info("query answered",
		zap.String("request_id", requestID),
		zap.String("intent", string(parsed.Intent)),
		zap.Int("found", rs.Found),
		zap.Strings("edge_notes", flags.EdgeNotes),
		zap.Duration("elapsed", elapsed))

	return &models.AskResponse{
		RequestID:   requestID,
		Parsed:      parsed,
		Results:     rs.Results,
		Found:       rs.Found,
		Answer:      answer.Text,
		EdgeNotes:   flags.EdgeNotes,
		Suggestions: flags.Suggestions,
		QueryTime:   elapsed.Milliseconds(),
	}, nil
}

// runUnderstanding covers dispatch through context building.
func (e *Engine) runUnderstanding(ctx context.Context, parsed models.ParsedQuery) (*models.ResultSet, *models.Context, error) {
	payload, err := e.dispatcher.Dispatch(ctx, parsed)
	if err != nil {
		return nil, nil, err
	}
	rs, err := respond.Preprocess(payload, e.pcfg)
	if err != nil {
		return nil, nil, err
	}
	return rs, respond.BuildContext(rs, e.pcfg), nil
}

// applyLimitOverride lets the caller force a limit on top of any parsed
// "top N" count.
func applyLimitOverride(parsed *models.ParsedQuery, limit int) {
	if limit > 0 {
		parsed.Slots.Limit = limit
	}
}

// mergeTitleSuggestions puts near-miss catalog titles ahead of the generic
// hints, keeping the overall cap of three.
func mergeTitleSuggestions(titles, generic []string) []string {
	out := make([]string, 0, 3)
	for _, t := range titles {
		out = append(out, "did you mean \""+t+"\"")
		if len(out) == 3 {
			return out
		}
	}
	for _, g := range generic {
		out = append(out, g)
		if len(out) == 3 {
			break
		}
	}
	return out
}
