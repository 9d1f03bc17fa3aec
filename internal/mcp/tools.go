package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateDeckTool defines the generate_deck MCP tool.
var generateDeckTool = mcp.NewTool("generate_deck",
	mcp.WithDescription("Generate a deck of study flashcards for a topic. Returns term/definition pairs and saves the deck."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("The topic to generate flashcards for"),
	),
	mcp.WithNumber("count",
		mcp.Description("How many cards to request (default from config)"),
	),
)

// listDecksTool defines the list_decks MCP tool.
var listDecksTool = mcp.NewTool("list_decks",
	mcp.WithDescription("List saved flashcard decks, newest first."),
	mcp.WithString("topic",
		mcp.Description("Filter decks whose topic contains this text"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of decks to return (default 20)"),
	),
)

// getDeckTool defines the get_deck MCP tool.
var getDeckTool = mcp.NewTool("get_deck",
	mcp.WithDescription("Get a saved deck with all of its cards."),
	mcp.WithString("deck_id",
		mcp.Required(),
		mcp.Description("ID of the saved deck"),
	),
)

// searchCardsTool defines the search_cards MCP tool.
var searchCardsTool = mcp.NewTool("search_cards",
	mcp.WithDescription("Semantically search flashcards across all saved decks."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("deck_id",
		mcp.Description("Restrict the search to one deck"),
	),
)
