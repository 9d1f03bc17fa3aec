package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"flashdeck/internal/history"
	"flashdeck/internal/llm"
	"flashdeck/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes flashcard tools to AI agents.
type Server struct {
	provider  llm.Provider
	model     string
	cardCount int
	store     *history.Store
	index     *search.Index
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. store
// and index may be nil; the corresponding tools then report that decks
// are not persisted.
func NewServer(provider llm.Provider, model string, cardCount int, store *history.Store, index *search.Index) *Server {
	s := &Server{
		provider:  provider,
		model:     model,
		cardCount: cardCount,
		store:     store,
		index:     index,
	}

	s.mcp = server.NewMCPServer(
		"flashdeck",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDeckTool, s.handleGenerateDeck)
	s.mcp.AddTool(listDecksTool, s.handleListDecks)
	s.mcp.AddTool(getDeckTool, s.handleGetDeck)
	s.mcp.AddTool(searchCardsTool, s.handleSearchCards)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
