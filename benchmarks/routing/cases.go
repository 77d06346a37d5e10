// ABOUTME: Labelled utterances for the routing benchmark
// ABOUTME: Covers every complexity label, in Portuguese as users write to the assistant

package routing

import "github.com/harper/triprouter/internal/models"

// Case is one labelled utterance
type Case struct {
	ID            string
	Text          string
	HasAttachment bool
	Expected      models.QueryComplexity
}

// DefaultCases returns the built-in benchmark set
func DefaultCases() []Case {
	return []Case{
		// trivial
		{ID: "t1", Text: "oi", Expected: models.Trivial},
		{ID: "t2", Text: "Bom dia!", Expected: models.Trivial},
		{ID: "t3", Text: "obrigado", Expected: models.Trivial},
		{ID: "t4", Text: "valeu", Expected: models.Trivial},
		{ID: "t5", Text: "ok", Expected: models.Trivial},
		{ID: "t6", Text: "beleza", Expected: models.Trivial},
		{ID: "t7", Text: "👍", Expected: models.Trivial},
		{ID: "t8", Text: "tudo bem", Expected: models.Trivial},

		// informative
		{ID: "i1", Text: "Qual é o horário do meu voo?", Expected: models.Informative},
		{ID: "i2", Text: "Em qual hotel vou ficar em Roma?", Expected: models.Informative},
		{ID: "i3", Text: "Quando começa a minha viagem?", Expected: models.Informative},
		{ID: "i4", Text: "Qual o número da minha reserva do carro?", Expected: models.Informative},
		{ID: "i5", Text: "Quais cidades estão no meu roteiro?", Expected: models.Informative},
		{ID: "i6", Text: "Que horas é o check-in do hotel?", Expected: models.Informative},

		// complex
		{ID: "c1", Text: "Crie um roteiro de 5 dias em Roma", Expected: models.Complex},
		{ID: "c2", Text: "Quais restaurantes você recomenda perto do Coliseu?", Expected: models.Complex},
		{ID: "c3", Text: "Como está o clima em Lisboa na próxima semana?", Expected: models.Complex},
		{ID: "c4", Text: "Compare trem e avião de Paris para Amsterdã", Expected: models.Complex},
		{ID: "c5", Text: "Sugira passeios para fazer com crianças em Orlando", Expected: models.Complex},
		{ID: "c6", Text: "Reorganize meu roteiro para incluir Florença", Expected: models.Complex},

		// vision
		{ID: "v1", Text: "o que diz esse documento?", HasAttachment: true, Expected: models.Vision},
		{ID: "v2", Text: "", HasAttachment: true, Expected: models.Vision},
		{ID: "v3", Text: "obrigado", HasAttachment: true, Expected: models.Vision},

		// critical
		{ID: "k1", Text: "Preciso conferir os dados do meu passaporte antes de embarcar", Expected: models.Critical},
		{ID: "k2", Text: "Devo cancelar a reserva e pedir reembolso?", Expected: models.Critical},
		{ID: "k3", Text: "Meu visto foi negado, o que faço?", Expected: models.Critical},
	}
}
