// Package answer implements the retrieval-augmented answer pipeline for
// questions no canned template covers: retrieve relevant hotel knowledge,
// compose the recent conversation window, build a grounded system prompt,
// invoke the generation model, and normalize its raw output into a string.
package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/knowledge"
	"github.com/costaazul/concierge/internal/log"
)

// ErrGenerationFailed wraps generation-provider failures. Unlike storage
// outages these are not recovered here: the transport layer must surface a
// distinguishable failure instead of a silently wrong answer.
var ErrGenerationFailed = errors.New("generation failed")

// Config contains the required parameters for the Generator.
type Config struct {
	Genkit    *genkit.Genkit
	Retriever *knowledge.Retriever
	Logger    log.Logger

	// ModelName is the provider-qualified generation model,
	// e.g. "googleai/gemini-2.5-flash".
	ModelName string

	// Style selects the system-prompt voice. Zero value means StyleStrict.
	Style Style

	// HistoryWindow is the number of recent messages included in the prompt.
	// Zero means DefaultHistoryWindow.
	HistoryWindow int
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Retriever == nil {
		return errors.New("retriever is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Generator produces grounded answers. Stateless and safe for concurrent use;
// all configuration is captured immutably at construction.
type Generator struct {
	g             *genkit.Genkit
	retriever     *knowledge.Retriever
	logger        log.Logger
	modelName     string
	style         Style
	historyWindow int
}

// New creates a Generator.
func New(cfg Config) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	style := cfg.Style
	if style == "" {
		style = StyleStrict
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}

	return &Generator{
		g:             cfg.Genkit,
		retriever:     cfg.Retriever,
		logger:        cfg.Logger,
		modelName:     cfg.ModelName,
		style:         style,
		historyWindow: window,
	}, nil
}

// Answer generates a grounded reply to userMessage given the session
// transcript. Retrieval failures degrade to an empty knowledge block; a
// generation-provider failure is returned wrapped in ErrGenerationFailed and
// must be handled by the caller.
func (gen *Generator) Answer(ctx context.Context, userMessage string, transcript []history.Message) (string, error) {
	knowledgeBlock := gen.retriever.Retrieve(ctx, userMessage)
	if knowledgeBlock == "" {
		gen.logger.Debug("answering without retrieved knowledge")
	}

	historyCtx := ComposeHistory(transcript, gen.historyWindow)
	systemPrompt := buildSystemPrompt(gen.style, knowledgeBlock, historyCtx)

	resp, err := genkit.Generate(ctx, gen.g,
		ai.WithModelName(gen.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithPrompt(userMessage),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return Normalize(resp), nil
}
