package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"flashdeck/internal/db"
	"flashdeck/internal/history"
	"flashdeck/internal/mcp"
	"flashdeck/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout so AI
assistants can generate, browse and search flashcard decks.`,
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

		var index *search.Index
		if embedder, err := createEmbedderFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: card search disabled: %v\n", err)
		} else if index, err = search.NewIndex(embedder); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: card search disabled: %v\n", err)
			index = nil
		} else if err := index.Load(cmd.Context(), cfg.DataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load search index: %v\n", err)
		}

		mcp.Version = Version
		srv := mcp.NewServer(provider, cfg.Model, cfg.CardCount, store, index)

		fmt.Fprintln(os.Stderr, "flashdeck MCP server listening on stdio")
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
