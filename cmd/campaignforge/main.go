package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/budget"
	"github.com/user/campaignforge/internal/config"
	"github.com/user/campaignforge/internal/engine"
	"github.com/user/campaignforge/internal/orchestrator"
	"github.com/user/campaignforge/internal/planner"
	"github.com/user/campaignforge/internal/state"
	"github.com/user/campaignforge/internal/toolkit"
	"github.com/user/campaignforge/pkg/llm"
	"github.com/user/campaignforge/pkg/llm/openai"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "campaignforge",
	Short: "AI marketing campaign generator",
	Long:  "campaignforge turns short marketing briefs into ready campaign manifests: strategy, captions, images, scripts and safety checks.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath,
		"config",
		filepath.Join(os.Getenv("HOME"), ".campaignforge", "config.json"),
		"config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file or exits. Commands call this instead
// of handling config errors individually.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// buildOrchestrator wires the full generation pipeline from config:
// provider, planner, tool set, engine and stores.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, *state.CampaignStore, *state.BlobStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	store := state.NewCampaignStore(cfg.DataDir)
	blobs := state.NewBlobStore(cfg.DataDir)

	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		EmbedModel:  cfg.LLM.EmbedModel,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	counter, err := budget.New(cfg.LLM.Model, cfg.LLM.MaxContextTokens, cfg.LLM.OutputReserve)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create token counter: %w", err)
	}

	tools := toolkit.NewSet()
	tools.Register(toolkit.NewLLMText(provider))
	tools.Register(toolkit.NewImageGenerate(cfg.Image.APIKey, cfg.Image.BaseURL, cfg.Image.Model))
	tools.Register(toolkit.NewModeration(provider))
	tools.Register(toolkit.NewComputeEmbedding(provider))
	tools.Register(toolkit.NewStoreAsset(blobs))
	if cfg.Brave.APIKey != "" {
		tools.Register(toolkit.NewWebSearch(cfg.Brave.APIKey, true))
	}

	eng := engine.New(tools, blobs)
	orch := orchestrator.New(planner.New(provider, counter), eng, store)
	return orch, store, blobs, nil
}
