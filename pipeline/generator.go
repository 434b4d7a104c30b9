// Package pipeline runs one email generation from an uploaded report:
// validate the form, extract the PDF text, bound it to a token budget,
// obtain metrics when the strategy needs them, and compose the email.
//
// Every stage failure aborts the run. A Result is returned only when a
// complete email was produced.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reportmailer/compose"
	"reportmailer/core"
	"reportmailer/keymetrics"
	"reportmailer/llm"
	"reportmailer/logging"
	"reportmailer/pdfprocessor"
)

// Stage names reported to the progress callback.
type Stage string

const (
	StageValidate Stage = "validate"
	StageExtract  Stage = "extract"
	StageTruncate Stage = "truncate"
	StageMetrics  Stage = "metrics"
	StageCompose  Stage = "compose"
)

// ProgressCallback is called when a stage starts (progress 0) and ends
// (progress 1).
type ProgressCallback func(stage Stage, progress float64, message string)

// CompleterSource returns the completion client for an operator-supplied key,
// falling back to the preconfigured one.
type CompleterSource func(apiKey string) (llm.Completer, error)

// Request is one submission of the form.
type Request struct {
	// RequestID ties the run to the caller's logs; empty generates one.
	RequestID string
	PDF       []byte
	Fields    compose.EmailFields
	Strategy  core.Strategy // empty selects the configured default
	APIKey    string
}

// ExtractionStats summarizes the text side of a run for logging and display.
type ExtractionStats struct {
	Pages      int
	EmptyPages int
	Tokens     int // tokens of the extracted text
	SentTokens int // tokens after truncation; zero when nothing was sent
	Truncated  bool
}

// Stages contains timing for each stage that ran.
type Stages struct {
	Validation  time.Duration
	Extraction  time.Duration
	Truncation  time.Duration
	Metrics     time.Duration
	Composition time.Duration
}

// Total returns the sum of all stage timings.
func (s Stages) Total() time.Duration {
	return s.Validation + s.Extraction + s.Truncation + s.Metrics + s.Composition
}

// Result is the outcome of a successful run.
type Result struct {
	RequestID  string
	Strategy   core.Strategy
	Fields     compose.EmailFields
	Email      compose.Email
	Metrics    *keymetrics.KeyMetrics // structured strategy only
	Highlights *keymetrics.Highlights // highlights strategy only
	Extraction ExtractionStats
	Stages     Stages
}

// Config wires a Generator.
type Config struct {
	Extractor  *pdfprocessor.Extractor
	Truncator  *pdfprocessor.Truncator
	Completers CompleterSource
	Profile    compose.AgencyProfile

	// MaxInputTokens bounds the report text in the free-form prompt.
	MaxInputTokens int
	// ExtractionMaxInputTokens bounds the report text in the metrics request.
	ExtractionMaxInputTokens int

	DefaultStrategy core.Strategy
	// Commentary adds one completion to the structured strategy for a short
	// summary paragraph.
	Commentary bool

	Logger   *logging.Logger
	Progress ProgressCallback
}

// Generator runs the pipeline. It holds no per-request state and is safe for
// concurrent use.
type Generator struct {
	cfg    Config
	logger *logging.Logger
}

// New creates a Generator. A nil Extractor uses the strict default and a
// nil Logger discards output.
func New(cfg Config) *Generator {
	if cfg.Extractor == nil {
		cfg.Extractor = pdfprocessor.NewDefaultExtractor()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = core.StrategyFreeform
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{cfg: cfg, logger: logger.Named("pipeline")}
}

// DefaultStrategy returns the strategy used when a request names none.
func (g *Generator) DefaultStrategy() core.Strategy {
	return g.cfg.DefaultStrategy
}

// Generate runs one request to completion or failure.
//
// Example:
//
//	result, err := gen.Generate(ctx, pipeline.Request{
//	    PDF:      data,
//	    Fields:   fields,
//	    Strategy: core.StrategyHighlights,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Email.Body)
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{RequestID: req.RequestID}
	if result.RequestID == "" {
		result.RequestID = uuid.NewString()
	}
	log := g.logger.With(zap.String("request_id", result.RequestID))

	// Stage 1: validate everything that can be checked without side effects
	g.reportProgress(StageValidate, 0.0, "Checking form fields...")
	start := time.Now()

	strategy, err := core.ParseStrategy(string(req.Strategy), g.cfg.DefaultStrategy)
	if err != nil {
		return nil, core.ValidationError("pipeline.validate", err.Error())
	}
	result.Strategy = strategy
	result.Fields = req.Fields.Trimmed()

	if err := result.Fields.Validate(); err != nil {
		log.Info("Generation rejected", zap.Error(err))
		return nil, err
	}
	if len(req.PDF) == 0 {
		return nil, core.ValidationError("pipeline.validate", "carica il PDF del report")
	}

	var completer llm.Completer
	if strategy != core.StrategyHighlights {
		if g.cfg.Completers == nil {
			return nil, core.ValidationError("pipeline.validate", "no completion service configured")
		}
		completer, err = g.cfg.Completers(req.APIKey)
		if err != nil {
			return nil, err
		}
	}
	result.Stages.Validation = time.Since(start)
	g.reportProgress(StageValidate, 1.0, "Form complete")

	log.Info("Generation started",
		zap.String("strategy", string(strategy)),
		zap.String("report_type", string(result.Fields.ReportType)),
		zap.Int("pdf_bytes", len(req.PDF)))

	// Stage 2: extract the report text
	g.reportProgress(StageExtract, 0.0, "Extracting PDF text...")
	start = time.Now()
	extraction, err := g.cfg.Extractor.ExtractBytes(req.PDF)
	if err != nil {
		log.Warn("Extraction failed", zap.Error(err))
		return nil, err
	}
	result.Stages.Extraction = time.Since(start)
	result.Extraction.Pages = extraction.TotalPages
	result.Extraction.EmptyPages = extraction.EmptyPages
	g.reportProgress(StageExtract, 1.0, fmt.Sprintf("Extracted %d pages, ~%d tokens",
		extraction.TotalPages, extraction.EstimatedTokens))

	// Stages 3-5 depend on the strategy
	switch strategy {
	case core.StrategyHighlights:
		err = g.runHighlights(result, extraction.Text)
	case core.StrategyStructured:
		err = g.runStructured(ctx, log, result, completer, extraction.Text)
	default:
		err = g.runFreeform(ctx, log, result, completer, extraction.Text)
	}
	if err != nil {
		log.Warn("Generation failed",
			zap.String("kind", string(core.KindOf(err))),
			zap.Error(err))
		return nil, err
	}

	log.Info("Generation complete",
		zap.String("format", string(result.Email.Format)),
		zap.Int("pages", result.Extraction.Pages),
		zap.Int("sent_tokens", result.Extraction.SentTokens),
		zap.Bool("truncated", result.Extraction.Truncated),
		zap.Duration("duration", result.Stages.Total()))
	return result, nil
}

// runHighlights fills the plain-text template with the two scanned figures.
// Nothing is sent to the completion service.
func (g *Generator) runHighlights(result *Result, text string) error {
	g.reportProgress(StageMetrics, 0.0, "Scanning for highlights...")
	start := time.Now()
	h := keymetrics.ExtractHighlights(text)
	result.Highlights = &h
	result.Stages.Metrics = time.Since(start)
	g.reportProgress(StageMetrics, 1.0, fmt.Sprintf("Found %d of 2 highlights", h.Found()))

	return g.composeStage(result, func() (compose.Email, error) {
		return compose.RenderHighlights(result.Fields, h, g.cfg.Profile)
	})
}

// runFreeform sends the prompt and uses the reply verbatim as the body.
func (g *Generator) runFreeform(ctx context.Context, log *logging.Logger, result *Result, completer llm.Completer, text string) error {
	bounded, err := g.truncate(result, text, g.cfg.MaxInputTokens)
	if err != nil {
		return err
	}

	return g.composeStage(result, func() (compose.Email, error) {
		messages, err := compose.BuildFreeformMessages(result.Fields, bounded, g.cfg.Profile)
		if err != nil {
			return compose.Email{}, err
		}
		log.Debug("Requesting free-form email", zap.Int("prompt_chars", len(messages[1].Content)))
		body, err := completer.Complete(ctx, messages)
		if err != nil {
			return compose.Email{}, err
		}
		return compose.Email{Body: body, Format: compose.FormatText}, nil
	})
}

// runStructured obtains KeyMetrics, optionally a commentary paragraph, and
// renders the HTML template.
func (g *Generator) runStructured(ctx context.Context, log *logging.Logger, result *Result, completer llm.Completer, text string) error {
	bounded, err := g.truncate(result, text, g.cfg.ExtractionMaxInputTokens)
	if err != nil {
		return err
	}

	g.reportProgress(StageMetrics, 0.0, "Requesting metrics...")
	start := time.Now()
	metrics, err := keymetrics.NewExtractor(completer, log).Extract(ctx, bounded)
	if err != nil {
		return err
	}
	result.Metrics = metrics
	result.Stages.Metrics = time.Since(start)
	g.reportProgress(StageMetrics, 1.0, "Metrics received")

	return g.composeStage(result, func() (compose.Email, error) {
		var commentary string
		if g.cfg.Commentary {
			commentary, err = completer.Complete(ctx, compose.BuildCommentaryMessages(result.Fields, metrics))
			if err != nil {
				return compose.Email{}, err
			}
		}
		return compose.RenderStructured(result.Fields, metrics, commentary, g.cfg.Profile)
	})
}

// truncate bounds text to budget tokens and records the counts.
func (g *Generator) truncate(result *Result, text string, budget int) (string, error) {
	if g.cfg.Truncator == nil {
		return "", core.EncodingError("pipeline.truncate", "no tokenizer configured", nil)
	}

	g.reportProgress(StageTruncate, 0.0, fmt.Sprintf("Bounding text to %d tokens...", budget))
	start := time.Now()

	bounded, err := g.cfg.Truncator.Truncate(text, budget)
	if err != nil {
		return "", err
	}
	result.Extraction.Tokens = g.cfg.Truncator.Count(text)
	result.Extraction.SentTokens = g.cfg.Truncator.Count(bounded)
	result.Extraction.Truncated = bounded != text
	result.Stages.Truncation = time.Since(start)

	g.reportProgress(StageTruncate, 1.0, fmt.Sprintf("%d of %d tokens kept",
		result.Extraction.SentTokens, result.Extraction.Tokens))
	return bounded, nil
}

// composeStage runs build as the final stage. Template failures, which only a
// programming error can cause, are reported with KindUnknown; errors that
// already carry a kind pass through.
func (g *Generator) composeStage(result *Result, build func() (compose.Email, error)) error {
	g.reportProgress(StageCompose, 0.0, "Composing email...")
	start := time.Now()

	email, err := build()
	if err != nil {
		if core.KindOf(err) == core.KindUnknown {
			return core.NewError(core.KindUnknown, "pipeline.compose", "failed to render email", err)
		}
		return err
	}
	result.Email = email
	result.Stages.Composition = time.Since(start)

	g.reportProgress(StageCompose, 1.0, "Email ready")
	return nil
}

// reportProgress calls the progress callback if set.
func (g *Generator) reportProgress(stage Stage, progress float64, message string) {
	if g.cfg.Progress != nil {
		g.cfg.Progress(stage, progress, message)
	}
}
