package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flashdeck/internal/db"
	"flashdeck/internal/export"
	"flashdeck/internal/history"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <deck-id>",
	Short: "Export a saved deck to markdown or HTML",
	Long: `Exports a deck from the archive to a file. The format is chosen by
the output extension: .html produces a standalone page, anything else
produces markdown. Use "flashdeck decks" to list saved deck IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "flashdeck.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := history.NewStore(database)
		saved, err := store.GetByID(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("loading deck: %w", err)
		}
		if saved == nil {
			return fmt.Errorf("deck %s not found", args[0])
		}

		out := exportOutput
		if out == "" {
			out = slugify(saved.Topic) + ".md"
		}

		switch filepath.Ext(out) {
		case ".html":
			err = export.WriteHTML(out, saved.Topic, saved.Cards)
		default:
			err = export.WriteMarkdown(out, saved.Topic, saved.Cards)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d cards to %s\n", len(saved.Cards), out)
		return nil
	},
}

// slugify turns a topic into a safe default filename.
func slugify(topic string) string {
	s := strings.ToLower(strings.TrimSpace(topic))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "deck"
	}
	return b.String()
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (default derived from the topic)")
	rootCmd.AddCommand(exportCmd)
}
