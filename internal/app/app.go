// Package app wires the application together: database pool, migrations,
// Genkit provider, stores, responder, generator, and the dialogue bot. All
// handles are constructed once at process start and injected explicitly,
// keeping the pipeline testable with stub stores and providers.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/costaazul/concierge/db"
	"github.com/costaazul/concierge/internal/answer"
	"github.com/costaazul/concierge/internal/api"
	"github.com/costaazul/concierge/internal/chatbot"
	"github.com/costaazul/concierge/internal/config"
	"github.com/costaazul/concierge/internal/history"
	"github.com/costaazul/concierge/internal/hotel"
	"github.com/costaazul/concierge/internal/knowledge"
	"github.com/costaazul/concierge/internal/log"
	"github.com/costaazul/concierge/internal/respond"
)

// App holds all initialized application components.
type App struct {
	Config *config.Config
	Logger log.Logger

	Pool     *pgxpool.Pool
	Genkit   *genkit.Genkit
	Embedder ai.Embedder

	Facts          *hotel.Facts
	HistoryStore   *history.Store
	KnowledgeStore *knowledge.Store
	Retriever      *knowledge.Retriever
	Indexer        *knowledge.Indexer
	Responder      *respond.Responder
	Generator      *answer.Generator
	Bot            *chatbot.Bot
}

// Setup creates and initializes the application. Call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	// A malformed fact document is a startup error, never a per-request one.
	facts, err := hotel.Load(cfg.HotelDataPath)
	if err != nil {
		return nil, fmt.Errorf("loading hotel facts: %w", err)
	}
	a.Facts = facts

	pool, err := providePool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	a.Genkit = g
	a.Embedder = googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if a.Embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	a.HistoryStore = history.New(history.NewQueries(pool), logger.With("component", "history"))
	a.KnowledgeStore = knowledge.NewStore(knowledge.NewQueries(pool), a.Embedder, logger.With("component", "knowledge"))
	a.Retriever = knowledge.NewRetriever(a.KnowledgeStore, cfg.TopK, logger.With("component", "retriever"))
	a.Indexer = knowledge.NewIndexer(a.KnowledgeStore, logger.With("component", "indexer"))
	a.Responder = respond.New(facts)

	a.Generator, err = answer.New(answer.Config{
		Genkit:        g,
		Retriever:     a.Retriever,
		Logger:        logger.With("component", "answer"),
		ModelName:     cfg.ModelName,
		Style:         answer.Style(cfg.PromptStyle),
		HistoryWindow: cfg.HistoryWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	a.Bot, err = chatbot.New(chatbot.Config{
		History:   a.HistoryStore,
		Responder: a.Responder,
		Generator: a.Generator,
		Logger:    logger.With("component", "chatbot"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	if cfg.ReindexOnStart {
		if _, err := a.Indexer.IndexFacts(ctx, facts); err != nil {
			return nil, fmt.Errorf("reindexing on start: %w", err)
		}
	}

	return a, nil
}

// NewAPIServer builds the HTTP server over the initialized components.
func (a *App) NewAPIServer() (*api.Server, error) {
	srv, err := api.NewServer(api.ServerConfig{
		Logger:      a.Logger,
		Bot:         a.Bot,
		Pool:        a.Pool,
		CORSOrigins: a.Config.CORSOrigins,
		TrustProxy:  a.Config.TrustProxy,
		RateBurst:   a.Config.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	return srv, nil
}

// Close releases all resources. Safe to call on a partially initialized App.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// providePool runs migrations and creates the PostgreSQL connection pool.
func providePool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	poolCfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
