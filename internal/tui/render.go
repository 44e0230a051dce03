package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"factrag/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// RenderMatches lists retrieved facts with their similarity to two decimals.
func RenderMatches(matches []domain.ScoredMatch) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Retrieved knowledge:"))
	b.WriteByte('\n')
	for _, m := range matches {
		b.WriteString(" - ")
		b.WriteString(scoreStyle.Render(fmt.Sprintf("(similarity: %.2f)", m.Score)))
		b.WriteByte(' ')
		b.WriteString(m.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderAnswer prints the model's reply under its header.
func RenderAnswer(text string) string {
	return headerStyle.Render("Chatbot response:") + "\n" + answerStyle.Render(text) + "\n"
}
