// ABOUTME: Classification prompt and trip context rendering
// ABOUTME: The prompt asks for a single label word and nothing else
package router

import (
	"fmt"
	"strings"

	"github.com/harper/triprouter/internal/models"
)

const classifierPreamble = "Você é um classificador de mensagens de usuários em um assistente de viagens.\n" +
	"Responda APENAS uma palavra: TRIVIAL, INFORMATIVE, COMPLEX ou CRITICAL."

const classifierLabels = `Classifique a complexidade respondendo APENAS UMA das palavras abaixo:

TRIVIAL → Saudações, agradecimentos, confirmações simples ("Oi", "Ok", "Obrigado")
INFORMATIVE → Perguntas sobre informações já coletadas ("Qual meu hotel?", "A que horas é o voo?")
COMPLEX → Pedidos de planejamento ou busca de novas informações ("Planeje 3 dias em Roma", "Busque hotéis perto do Coliseu")
CRITICAL → Documentos importantes ou decisões críticas ("Revise meu contrato de seguro", "Valide minha reserva de voo")

EXEMPLOS:
- "Bom dia!" → TRIVIAL
- "Qual o nome do hotel em Paris?" → INFORMATIVE
- "Quero visitar o Louvre amanhã, me ajuda?" → COMPLEX
- "Preciso cancelar minha reserva urgente" → CRITICAL

CLASSIFICAÇÃO (responda apenas UMA palavra):`

// FormatTripContext renders the trip context section; nil renders nothing
func FormatTripContext(trip *models.TripContext) string {
	if trip == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("CONTEXTO DA VIAGEM:\n")
	fmt.Fprintf(&sb, "- Status: %s\n", trip.StatusOrDefault())
	fmt.Fprintf(&sb, "- Destinos: %s\n", strings.Join(trip.Destinations, ", "))
	fmt.Fprintf(&sb, "- Datas: %s\n", trip.DateRange())
	return sb.String()
}

// BuildClassificationPrompt embeds the optional trip context and the raw
// user text into the fixed classification instructions.
func BuildClassificationPrompt(text string, trip *models.TripContext) string {
	var sb strings.Builder
	sb.WriteString(classifierPreamble)
	sb.WriteString("\n\n")
	if block := FormatTripContext(trip); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "MENSAGEM DO USUÁRIO:\n%q\n\n", text)
	sb.WriteString(classifierLabels)
	sb.WriteString("\n")
	return sb.String()
}
