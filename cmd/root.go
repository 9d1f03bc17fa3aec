package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "AI-generated flashcard decks for studying any topic",
	Long: `Flashdeck turns a topic into a deck of study flashcards using an LLM.
Generate decks from the command line or serve an interactive browser UI
with flip cards, deck history and semantic search across saved decks.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".flashdeck.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
