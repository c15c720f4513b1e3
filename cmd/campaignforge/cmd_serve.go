package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/notify"
	"github.com/user/campaignforge/internal/scheduler"
	"github.com/user/campaignforge/internal/state"
	"github.com/user/campaignforge/internal/telegram"
	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/internal/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the campaignforge daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "campaignforge.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	orch, store, blobs, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	// Write PID file
	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Gateway
	gw := gateway.New(store, int64(cfg.MaxConcurrent))
	gw.Queue.SetProcessor(orch.ProcessJob)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw.Start(ctx)
	defer gw.Stop()

	slog.Info("campaignforge started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"max_concurrent", cfg.MaxConcurrent,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.Model,
		"image_model", cfg.Image.Model,
		"pid_file", pidPath,
	)

	// Notification registry
	notifyReg := notify.NewRegistry()
	if cfg.Telegram.Token != "" {
		notifier, err := telegram.New(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("create telegram notifier: %w", err)
		}
		notifyReg.Register("telegram:", notifier.SendTo)
		slog.Info("telegram notifier registered")
	} else {
		slog.Warn("telegram notifier disabled (no token)")
	}

	// Recurring brief scheduler
	briefStore := state.NewBriefStore(cfg.DataDir)
	sched := scheduler.New(briefStore, func(rb *state.RecurringBrief) {
		target := rb.Notify
		if target == "" && cfg.Telegram.NotifyChat != "" {
			target = "telegram:" + cfg.Telegram.NotifyChat
		}
		_, err := gw.SubmitBrief(ctx, rb.Brief, gateway.WithOnComplete(func(m *types.Manifest, err error) {
			if err != nil {
				slog.Error("scheduled campaign failed", "brief", rb.Name, "error", err)
				return
			}
			if target == "" {
				return
			}
			msg := fmt.Sprintf("Campaign %s is ready (%d assets).", m.CampaignID, len(m.AssetPlan))
			if err := notifyReg.Notify(target, msg); err != nil {
				slog.Error("campaign notification failed", "target", target, "error", err)
			}
		}))
		if err != nil {
			slog.Error("enqueue scheduled brief failed", "brief", rb.Name, "error", err)
		}
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()
	slog.Info("scheduler started")

	// HTTP API server
	if cfg.HTTP.Enabled {
		srv := webhook.NewServer(store, gw, blobs.Dir())
		httpServer := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: srv,
		}
		go func() {
			slog.Info("http server started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("http server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			// Clean up PID file before re-exec
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				// Re-write PID file since we failed to re-exec
				if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
					slog.Error("failed to re-write PID file", "error", writeErr)
				}
				continue
			}
		}
		// SIGINT or SIGTERM
		slog.Info("shutting down", "signal", sig)
		return nil
	}
}
