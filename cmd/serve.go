package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/camden-git/familyring/handlers"
	"github.com/camden-git/familyring/metrics"
	"github.com/camden-git/familyring/realtime"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and change feed",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}

	log.Printf("Ensuring export directory exists: %s", cfg.ExportStoragePath)
	if err := os.MkdirAll(cfg.ExportStoragePath, 0755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", cfg.ExportStoragePath, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(cfg.CORSAllowedOrigins...)
	go hub.Run(ctx)

	ws, closeDB, err := openWorkspace(cfg, hub, metrics.New(prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}
	defer closeDB()

	router := handlers.NewRouter(handlers.RouterConfig{
		Workspace:      ws,
		Hub:            hub,
		Gatherer:       prometheus.DefaultGatherer,
		ExportDir:      cfg.ExportStoragePath,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	serverAddr := ":" + strconv.Itoa(cfg.Port)
	fmt.Printf("Server starting on http://localhost:%d\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
