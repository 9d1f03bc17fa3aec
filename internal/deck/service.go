package deck

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"flashdeck/internal/card"
	"flashdeck/internal/llm"
)

// StatusKind identifies a point in an operation's lifecycle.
type StatusKind string

const (
	// StatusWorking is emitted once when a generation request starts.
	StatusWorking StatusKind = "working"
	// StatusDone is emitted when an operation succeeds; it clears any
	// in-progress indicator.
	StatusDone StatusKind = "done"
	// StatusError is emitted when an operation fails; the message is
	// user-facing.
	StatusError StatusKind = "error"
)

// Status is one event on the operation status channel.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// CardSink receives newly-committed cards and status events. Render is
// called once per new card, in production order, and never again for a
// card already rendered in the same session. Presentation is entirely the
// sink's concern.
type CardSink interface {
	Render(c card.Card, position int)
	Status(s Status)
}

// Service manages the flashcard deck for one study session: it builds
// prompts, calls the generation provider, parses responses and reconciles
// the results into the deck. Start and Extend are serialized by a single
// mutex, so at most one provider call is outstanding and Extend never
// observes a deck that Start is concurrently replacing.
type Service struct {
	mu        sync.Mutex
	provider  llm.Provider
	model     string
	cardCount int
	sink      CardSink
	deck      *Deck
	topic     string
}

// NewService creates a session service. cardCount is how many cards each
// request asks the model for; sink may be nil when no live rendering is
// needed (e.g. the CLI collects the return value instead).
func NewService(provider llm.Provider, model string, cardCount int, sink CardSink) *Service {
	if cardCount <= 0 {
		cardCount = 10
	}
	return &Service{
		provider:  provider,
		model:     model,
		cardCount: cardCount,
		sink:      sink,
		deck:      New(),
	}
}

// Topic returns the topic of the current session, if any.
func (s *Service) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Cards returns a snapshot of the current deck in position order.
func (s *Service) Cards() []card.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Cards()
}

// Start begins a fresh session: it discards any existing deck and replaces
// it with cards generated for the topic. The existing deck is only
// discarded once generation and parsing have succeeded; on any failure the
// previous deck remains exactly as it was.
func (s *Service) Start(ctx context.Context, topic string) ([]card.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		err := fmt.Errorf("%w: enter a topic to generate flashcards", ErrValidation)
		s.emitError(err)
		return nil, err
	}

	s.emit(Status{Kind: StatusWorking, Message: "Generating flashcards..."})

	text, err := s.generate(ctx, buildGeneratePrompt(topic, s.cardCount))
	if err != nil {
		s.emitError(err)
		return nil, err
	}

	fresh := New()
	for _, c := range card.ParseCards(text) {
		fresh.Add(c)
	}
	if fresh.Len() == 0 {
		err := fmt.Errorf("%w: the model returned nothing usable, try rephrasing the topic", ErrEmptyResult)
		s.emitError(err)
		return nil, err
	}

	s.deck = fresh
	s.topic = topic
	for _, c := range s.deck.Cards() {
		s.render(c)
	}
	s.emit(Status{Kind: StatusDone})
	return s.deck.Cards(), nil
}

// Extend appends additional cards for the topic to the existing deck. The
// prompt carries the terms already in the deck so the model avoids them;
// any duplicates it produces anyway are dropped case-insensitively. On any
// failure, including zero new unique cards, the deck is left untouched.
func (s *Service) Extend(ctx context.Context, topic string) ([]card.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		err := fmt.Errorf("%w: enter a topic to generate flashcards", ErrValidation)
		s.emitError(err)
		return nil, err
	}
	if s.deck.Len() == 0 {
		err := fmt.Errorf("%w: generate a deck before asking for more cards", ErrValidation)
		s.emitError(err)
		return nil, err
	}

	s.emit(Status{Kind: StatusWorking, Message: "Generating more flashcards..."})

	text, err := s.generate(ctx, buildExtendPrompt(topic, s.deck.Terms(), s.cardCount))
	if err != nil {
		s.emitError(err)
		return nil, err
	}

	// Stage the survivors first so a batch with no new terms leaves the
	// deck untouched.
	seen := make(map[string]bool)
	var survivors []card.Card
	for _, c := range card.ParseCards(text) {
		key := c.Key()
		if s.deck.Has(c.Term) || seen[key] {
			continue
		}
		seen[key] = true
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		err := fmt.Errorf("%w: no new cards were generated, try again", ErrEmptyResult)
		s.emitError(err)
		return nil, err
	}

	added := make([]card.Card, 0, len(survivors))
	for _, c := range survivors {
		s.deck.Add(c)
		committed := s.deck.cards[s.deck.Len()-1]
		s.render(committed)
		added = append(added, committed)
	}
	s.emit(Status{Kind: StatusDone})
	return added, nil
}

// generate performs the single provider call shared by Start and Extend.
// Provider failures and empty payloads become GenerationErrors; the caller
// never sees a raw transport error.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Model:  s.model,
		System: systemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return "", newGenerationError(err)
	}
	if resp == nil || resp.Text == "" {
		return "", newGenerationError(fmt.Errorf("the model returned an empty response"))
	}
	return resp.Text, nil
}

func (s *Service) render(c card.Card) {
	if s.sink != nil {
		s.sink.Render(c, c.Position)
	}
}

func (s *Service) emit(st Status) {
	if s.sink != nil {
		s.sink.Status(st)
	}
}

func (s *Service) emitError(err error) {
	s.emit(Status{Kind: StatusError, Message: err.Error()})
}
