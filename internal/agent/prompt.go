// ABOUTME: Agent prompt assembly and the routing-only reply
// ABOUTME: Persona, trip context, memory context and the user message in that order
package agent

import (
	"fmt"
	"strings"

	"github.com/harper/triprouter/internal/models"
	"github.com/harper/triprouter/internal/router"
)

const persona = "Você é o n-agent, um assistente pessoal de viagens. " +
	"Responda em português de forma breve e útil, usando o contexto da viagem e o histórico da conversa quando existirem."

// BuildPrompt assembles the downstream prompt: persona, trip, memory, message
func BuildPrompt(req *Request, memoryContext string) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")

	if block := router.FormatTripContext(req.TripContext); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}

	if memoryContext != "" {
		sb.WriteString(memoryContext)
		sb.WriteString("\n\n")
	}

	sb.WriteString("MENSAGEM DO USUÁRIO:\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n")
	return sb.String()
}

// routingReply is the answer given when no model client is configured
func routingReply(req *Request, d models.RoutingDecision) string {
	var sb strings.Builder
	sb.WriteString("Olá! Sou o n-agent, seu assistente pessoal de viagens.\n\n")
	fmt.Fprintf(&sb, "Recebi sua mensagem: %q\n\n", req.Prompt)
	sb.WriteString("Roteamento:\n")
	fmt.Fprintf(&sb, "- Complexidade detectada: %s\n", d.Complexity)
	fmt.Fprintf(&sb, "- Modelo selecionado: %s\n", d.ModelID)
	fmt.Fprintf(&sb, "- Tempo de roteamento: %dms\n", d.RoutingLatencyMs)
	return sb.String()
}
