// Command server starts the interview coach HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/interview-coach/internal/adapter/ai/real"
	"github.com/fairyhunter13/interview-coach/internal/adapter/ai/stub"
	"github.com/fairyhunter13/interview-coach/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/interview-coach/internal/adapter/classifier/zeroshot"
	"github.com/fairyhunter13/interview-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/interview-coach/internal/adapter/textextractor/local"
	qdrantcli "github.com/fairyhunter13/interview-coach/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/interview-coach/internal/app"
	"github.com/fairyhunter13/interview-coach/internal/chat"
	"github.com/fairyhunter13/interview-coach/internal/config"
	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/internal/extract"
	"github.com/fairyhunter13/interview-coach/internal/match"
	"github.com/fairyhunter13/interview-coach/internal/registry"
	"github.com/fairyhunter13/interview-coach/internal/skills"
	"github.com/fairyhunter13/interview-coach/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	observability.SetupLogger(cfg)
	observability.InitMetrics()

	// Adapter selection: real clients when keys are configured, stubs
	// otherwise so the server runs offline.
	stubClient := stub.New()
	realClient := real.New(cfg)
	var chatModel domain.ChatModel = stubClient
	var embedder domain.Embedder = stubClient
	var classifier domain.Classifier = stubClient
	if cfg.ChatEnabled() {
		chatModel = realClient
	} else {
		slog.Warn("no chat api key configured, using stub chat model")
	}
	if cfg.EmbeddingsEnabled() {
		embedder = realClient
	} else {
		slog.Warn("no embeddings api key configured, using stub embedder")
	}
	if cfg.ClassifierEnabled() {
		classifier = zeroshot.New(cfg)
	} else {
		slog.Warn("no classifier api key configured, using stub classifier")
	}

	var qcli *qdrantcli.Client
	if cfg.QdrantEnabled() {
		qcli = qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	}

	catalog, err := skills.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog load failed", slog.Any("error", err))
		os.Exit(1)
	}
	matcher := match.New(embedder, catalog,
		match.WithFuzzyCutoff(cfg.FuzzyCutoff),
		match.WithSemanticThreshold(cfg.SemanticThreshold))

	engine := chat.NewEngine(chatModel, tokencount.NewCounter(), chat.Options{
		Model:           cfg.ChatModel,
		MaxTokens:       cfg.ChatMaxTokens,
		Temperature:     cfg.ChatTemperature,
		PromptTokenCap:  cfg.PromptTokenCap,
		RetrievalTopK:   cfg.RetrievalTopK,
		RetrievalCutoff: cfg.RetrievalThreshold,
	})

	store := usecase.NewSessionStore()
	analyzeSvc := usecase.NewAnalyzeService(local.New(), extract.NewGenerator(), matcher, skills.NewCategorizer(classifier), store)
	coachSvc := usecase.NewCoachService(engine, embedder, store, registry.New(), cfg.SkillRefsDir, qcli)

	srv := httpserver.NewServer(cfg, analyzeSvc, coachSvc)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
