package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flashdeck/internal/card"
)

var testCards = []card.Card{
	{Term: "Osmosis", Definition: "diffusion of water across a membrane", Position: 0},
	{Term: "Ratio", Definition: "3:2", Position: 1},
}

func TestMarkdown(t *testing.T) {
	md := Markdown("cell biology", testCards)

	if !strings.Contains(md, "# Flashcards: cell biology") {
		t.Error("expected title heading")
	}
	if !strings.Contains(md, "| 1 | Osmosis |") {
		t.Error("expected first card row")
	}
	if !strings.Contains(md, "3:2") {
		t.Error("expected definition with colon preserved")
	}
}

func TestMarkdownEscapesPipes(t *testing.T) {
	md := Markdown("shell", []card.Card{
		{Term: "Pipe", Definition: "the | operator chains commands", Position: 0},
	})
	if !strings.Contains(md, `\|`) {
		t.Error("expected pipe escaped in table cell")
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML("cell biology", testCards)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	s := string(page)
	if !strings.Contains(s, "<title>Flashcards: cell biology</title>") {
		t.Error("expected page title")
	}
	if !strings.Contains(s, "<table>") {
		t.Error("expected rendered table")
	}
	if !strings.Contains(s, "Osmosis") {
		t.Error("expected card content")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "deck.md")
	if err := WriteMarkdown(mdPath, "cell biology", testCards); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Errorf("markdown file missing: %v", err)
	}

	htmlPath := filepath.Join(dir, "deck.html")
	if err := WriteHTML(htmlPath, "cell biology", testCards); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading html: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("expected full html document")
	}
}
