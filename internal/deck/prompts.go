package deck

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a study assistant that writes flashcards. Respond with one flashcard per line in the exact format "Term: definition". Do not number the lines, do not add headers or commentary, and keep each definition on a single line.`

const generatePromptTemplate = `Write %d flashcards for studying the topic "%s". Each line must be a term followed by a colon and a concise definition.`

const extendPromptTemplate = `Write %d additional flashcards for studying the topic "%s". The following terms are already covered, so do not repeat any of them: %s. Each line must be a term followed by a colon and a concise definition.`

// buildGeneratePrompt returns the prompt for a fresh deck on the topic.
func buildGeneratePrompt(topic string, count int) string {
	return fmt.Sprintf(generatePromptTemplate, count, topic)
}

// buildExtendPrompt returns the prompt for extending an existing deck.
// The known terms are joined into a single comma-delimited string so the
// model can avoid duplicating them.
func buildExtendPrompt(topic string, terms []string, count int) string {
	return fmt.Sprintf(extendPromptTemplate, count, topic, strings.Join(terms, ", "))
}
