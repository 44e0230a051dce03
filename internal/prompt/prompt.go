package prompt

import (
	"strings"

	"factrag/internal/domain"
)

const header = "You are a helpful chatbot.\n" +
	"Use only the following pieces of context to answer the question. Don't make up any new information:\n"

// BuildInstruction renders the grounding instruction for the chat model.
// Each match becomes a " - " bullet in the order given; scores are left out.
// No matches yields the header with an empty context section.
func BuildInstruction(matches []domain.ScoredMatch) string {
	var b strings.Builder
	b.WriteString(header)
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(" - ")
		b.WriteString(m.Text)
	}
	return b.String()
}
