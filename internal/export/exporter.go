package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"flashdeck/internal/card"
)

// Markdown renders a deck as a markdown document: a title heading and a
// term/definition table, suitable for notes apps or version control.
func Markdown(topic string, cards []card.Card) string {
	var sb strings.Builder
	sb.WriteString("# Flashcards: " + topic + "\n\n")
	sb.WriteString(fmt.Sprintf("%d cards\n\n", len(cards)))
	sb.WriteString("| # | Term | Definition |\n")
	sb.WriteString("|---|------|------------|\n")
	for _, c := range cards {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", c.Position+1, escapeCell(c.Term), escapeCell(c.Definition)))
	}
	return sb.String()
}

// escapeCell keeps pipes and newlines from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// HTML renders a deck as a standalone HTML study page. The markdown body
// is converted with goldmark and wrapped in a minimal page template.
func HTML(topic string, cards []card.Card) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(topic, cards)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	var page bytes.Buffer
	err = tmpl.Execute(&page, pageData{
		Title:   "Flashcards: " + topic,
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return page.Bytes(), nil
}

// WriteMarkdown writes the deck's markdown rendering to path.
func WriteMarkdown(path, topic string, cards []card.Card) error {
	if err := os.WriteFile(path, []byte(Markdown(topic, cards)), 0o644); err != nil {
		return fmt.Errorf("writing markdown export: %w", err)
	}
	return nil
}

// WriteHTML writes the deck's HTML study page to path.
func WriteHTML(path, topic string, cards []card.Card) error {
	page, err := HTML(topic, cards)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("writing html export: %w", err)
	}
	return nil
}

type pageData struct {
	Title   string
	Content template.HTML
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 800px; margin: 0 auto; padding: 32px 16px; color: #212529; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #dee2e6; padding: 8px 12px; text-align: left; }
th { background: #f8f9fa; }
tr:nth-child(even) { background: #f8f9fa; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`
