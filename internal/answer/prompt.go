package answer

import (
	"fmt"
	"strings"

	"github.com/costaazul/concierge/internal/history"
)

// Style selects the system-prompt voice. Both styles enforce the same
// grounding rules; they differ only in tone and verbosity.
type Style string

// Available prompt styles.
const (
	// StyleStrict asks for short, minimal answers.
	StyleStrict Style = "strict"

	// StyleWarm asks for the elaborate, emoji-rich host voice.
	StyleWarm Style = "warm"
)

// DefaultHistoryWindow is the number of recent messages included in the
// prompt when no window is configured.
const DefaultHistoryWindow = 4

// ComposeHistory renders the last limit messages of a transcript as a
// conversational context block, oldest kept first. Empty input yields "".
//
// This is a fixed-size sliding window, not a summary: it bounds prompt size
// while keeping recent turns salient.
func ComposeHistory(messages []history.Message, limit int) string {
	if len(messages) == 0 || limit <= 0 {
		return ""
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := "Asistente"
		if m.Sender == history.SenderUser {
			role = "Usuario"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Content))
	}

	return strings.Join(lines, "\n")
}

// buildSystemPrompt assembles the grounded system instruction: persona and
// scope, the no-fabrication rules, human-deferral conditions, and the
// retrieved knowledge and history blocks embedded verbatim.
func buildSystemPrompt(style Style, knowledge, historyCtx string) string {
	var b strings.Builder

	switch style {
	case StyleWarm:
		b.WriteString("Eres el asistente virtual oficial del Hotel Costa Azul 🏖️, un anfitrión cercano y entusiasta.\n\n")
		b.WriteString("REGLAS IMPORTANTES:\n")
		b.WriteString("- Responde SOLO usando la información proporcionada.\n")
		b.WriteString("- NO inventes servicios, horarios ni precios.\n")
		b.WriteString("- Puedes combinar y reformular la información existente.\n")
		b.WriteString("- Usa un tono cálido, con emojis cuando encajen de forma natural.\n")
		b.WriteString("- Si no hay información suficiente, si el huésped pide hablar con una persona, " +
			"o si la petición requiere una gestión real (reservas, cambios, pagos), deriva amablemente a recepción.\n\n")
	default: // StyleStrict
		b.WriteString("Eres el asistente virtual oficial del Hotel Costa Azul.\n\n")
		b.WriteString("REGLAS IMPORTANTES:\n")
		b.WriteString("- Responde SOLO usando la información proporcionada.\n")
		b.WriteString("- NO inventes servicios, horarios ni precios.\n")
		b.WriteString("- Puedes combinar y reformular la información existente.\n")
		b.WriteString("- Responde de forma breve y directa.\n")
		b.WriteString("- Si no hay información suficiente, si el huésped pide hablar con una persona, " +
			"o si la petición requiere una gestión real (reservas, cambios, pagos), deriva amablemente a recepción.\n\n")
	}

	b.WriteString("CONOCIMIENTO DEL HOTEL (relevante para esta pregunta):\n")
	b.WriteString(knowledge)
	b.WriteString("\n\n")

	b.WriteString("CONTEXTO DE LA CONVERSACIÓN (reciente):\n")
	b.WriteString(historyCtx)
	b.WriteString("\n")

	return b.String()
}
