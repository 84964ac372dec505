package main

import (
	"context"
	"fmt"
	"strings"
)

// ReplyDrafter produces the suggested user-facing reply for a ticket.
type ReplyDrafter struct {
	llm TextCompleter
}

func NewReplyDrafter(llm TextCompleter) *ReplyDrafter {
	return &ReplyDrafter{llm: llm}
}

// Draft builds the Spanish reply prompt and returns the trimmed model
// output. Absent ticket fields fall back to generic placeholders so the
// reply never references empty strings.
func (d *ReplyDrafter) Draft(ctx context.Context, ticket Record, area, specialistName string) (string, error) {
	nombre := fallback(ticket[colRequesterName], "usuario")
	ticketID := fallback(ticket[colTicket], "0000")
	descripcion := ticket[colDescription]
	areaTexto := fallback(area, "soporte técnico")
	especialista := fallback(specialistName, "nuestro equipo")

	systemPrompt := `Eres un agente de mesa de ayuda que redacta respuestas para usuarios finales.
La respuesta debe:
- Tener un tono empático y claro
- Estar en español
- Terminar agradeciendo al usuario`

	userPrompt := fmt.Sprintf(`Redacta una respuesta profesional y amable para el usuario %s, respecto al ticket N°%s.
El texto del ticket es: %q
El caso fue derivado al área de %s y será atendido por %s.`,
		nombre, ticketID, descripcion, areaTexto, especialista)

	text, err := d.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", wrapErr(KindRemoteService, "drafting reply", err)
	}
	return strings.TrimSpace(text), nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
