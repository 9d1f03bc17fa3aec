package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"flashdeck/internal/db"
	"flashdeck/internal/history"
)

var (
	decksTopic string
	decksLimit int
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List saved flashcard decks",
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
		decks, err := store.List(context.Background(), history.ListFilter{
			Topic: decksTopic,
			Limit: decksLimit,
		})
		if err != nil {
			return fmt.Errorf("listing decks: %w", err)
		}

		if len(decks) == 0 {
			fmt.Println("No saved decks. Generate one with `flashdeck generate --save`.")
			return nil
		}

		for _, d := range decks {
			fmt.Printf("%s  %-30s  %3d cards  %s\n",
				d.ID, d.Topic, d.CardCount, d.CreatedAt.Format("2006-01-02 15:04"))
		}

		total, err := store.TotalCost(context.Background())
		if err == nil && total > 0 {
			fmt.Printf("\nTotal generation cost: $%.4f\n", total)
		}
		return nil
	},
}

func init() {
	decksCmd.Flags().StringVar(&decksTopic, "topic", "", "filter decks by topic substring")
	decksCmd.Flags().IntVar(&decksLimit, "limit", 50, "maximum number of decks to list")
	rootCmd.AddCommand(decksCmd)
}
