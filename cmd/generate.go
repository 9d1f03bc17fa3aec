package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"flashdeck/internal/card"
	"flashdeck/internal/db"
	"flashdeck/internal/deck"
	"flashdeck/internal/export"
	"flashdeck/internal/history"
	"flashdeck/internal/llm"
	"flashdeck/internal/progress"
)

var (
	generateCount  int
	generateSave   bool
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a flashcard deck for a topic",
	Long: `Generates a deck of flashcards for the given topic and prints it.
With --save the deck is archived in the data directory; with --output it
is exported to a markdown (.md) or HTML (.html) file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		count := cfg.CardCount
		if generateCount > 0 {
			count = generateCount
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Using %s model %s, requesting %d cards\n", cfg.Provider, cfg.Model, count)
		}

		// Track token usage for the cost summary.
		tracked := &usageTrackingProvider{inner: provider}

		reporter := progress.NewReporter()
		reporter.Start(count)
		sink := &progressSink{reporter: reporter}

		svc := deck.NewService(tracked, cfg.Model, count, sink)
		cards, err := svc.Start(context.Background(), topic)
		reporter.Finish()
		if err != nil {
			return err
		}

		fmt.Printf("\n%d flashcards for %q:\n\n", len(cards), topic)
		for _, c := range cards {
			fmt.Printf("  %s: %s\n", c.Term, c.Definition)
		}

		in, out := tracked.usage()
		if cost := llm.EstimateCost(cfg.Model, in, out); cost > 0 {
			fmt.Printf("\nTokens: %d in / %d out, estimated cost $%.4f\n", in, out, cost)
		}

		if generateSave {
			if err := saveDeck(cfg.DataDir, topic, string(cfg.Provider), cfg.Model, svc, in, out); err != nil {
				return err
			}
		}

		if generateOutput != "" {
			switch filepath.Ext(generateOutput) {
			case ".html":
				err = export.WriteHTML(generateOutput, topic, cards)
			default:
				err = export.WriteMarkdown(generateOutput, topic, cards)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Exported deck to %s\n", generateOutput)
		}

		return nil
	},
}

// saveDeck archives the generated deck and logs the provider call.
func saveDeck(dataDir, topic, providerName, model string, svc *deck.Service, inTokens, outTokens int) error {
	database, err := db.Open(filepath.Join(dataDir, "flashdeck.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := history.NewStore(database)
	cards := svc.Cards()
	saved, err := store.Save(context.Background(), history.SavedDeck{
		Topic:    topic,
		Provider: providerName,
		Model:    model,
		Cards:    cards,
	})
	if err != nil {
		return fmt.Errorf("saving deck: %w", err)
	}

	_, err = store.LogGeneration(context.Background(), history.GenerationRecord{
		DeckID:       saved.ID,
		Operation:    "start",
		Model:        model,
		InputTokens:  inTokens,
		OutputTokens: outTokens,
		CostUSD:      llm.EstimateCost(model, inTokens, outTokens),
		CardsAdded:   len(cards),
	})
	if err != nil {
		return fmt.Errorf("logging generation: %w", err)
	}

	fmt.Printf("Saved deck %s\n", saved.ID)
	return nil
}

// progressSink advances the progress bar as cards come in.
type progressSink struct {
	reporter progress.Reporter
	rendered int
}

func (s *progressSink) Render(c card.Card, position int) {
	s.rendered++
	s.reporter.Update(s.rendered, c.Term)
}

// Errors surface through the command's return value, so status events
// only matter for the bar description.
func (s *progressSink) Status(st deck.Status) {
	if st.Kind == deck.StatusWorking && st.Message != "" {
		s.reporter.Update(s.rendered, st.Message)
	}
}

// usageTrackingProvider accumulates token counts across provider calls.
type usageTrackingProvider struct {
	inner llm.Provider
	mu    sync.Mutex
	in    int
	out   int
}

func (p *usageTrackingProvider) Name() string { return p.inner.Name() }

func (p *usageTrackingProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	resp, err := p.inner.Generate(ctx, req)
	if resp != nil {
		p.mu.Lock()
		p.in += resp.InputTokens
		p.out += resp.OutputTokens
		p.mu.Unlock()
	}
	return resp, err
}

func (p *usageTrackingProvider) usage() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.in, p.out
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 0, "number of cards to request (default from config)")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "archive the deck in the data directory")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "export the deck to a .md or .html file")
	rootCmd.AddCommand(generateCmd)
}
