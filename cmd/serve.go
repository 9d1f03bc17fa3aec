package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"flashdeck/internal/db"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/search"
	"flashdeck/internal/server"
	"flashdeck/internal/web"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flashcard study server",
	Long: `Starts the web server hosting the interactive flip-card UI, the
session API, deck history and semantic search across saved decks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		database, err := db.Open(filepath.Join(cfg.DataDir, "flashdeck.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := history.NewStore(database)

		// Search is optional: without embedding credentials the server
		// still runs, just without /api/search.
		var index *search.Index
		if embedder, err := createEmbedderFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: search disabled: %v\n", err)
		} else if index, err = search.NewIndex(embedder); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: search disabled: %v\n", err)
			index = nil
		} else if err := index.Load(cmd.Context(), cfg.DataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load search index: %v\n", err)
		}

		broadcaster := web.NewBroadcaster()
		session := deck.NewService(provider, cfg.Model, cfg.CardCount, broadcaster)

		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}
		srv := server.New(server.Config{
			Port:     port,
			DataDir:  cfg.DataDir,
			AllowAll: serveAllowAll || cfg.Server.AllowAll,
		}, database, session)

		handler := web.NewHandler(session, broadcaster, store, index)
		handler.RegisterRoutes(srv.Router())
		history.RegisterRoutes(srv.Router(), store)
		if index != nil {
			search.RegisterRoutes(srv.Router(), index)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		fmt.Fprintf(os.Stderr, "Open http://localhost:%d to start studying\n", port)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		fmt.Fprintln(os.Stderr, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if index != nil {
			if err := index.Persist(shutdownCtx, cfg.DataDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not persist search index: %v\n", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
