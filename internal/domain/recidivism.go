package domain

import "strings"

// RecidivismPageSize is the fixed page size of the recidivism views.
const RecidivismPageSize = 10

// BOSeparator joins report numbers in an aggregated recidivism row.
const BOSeparator = ", "

// RecidivismRecord aggregates the offender rows that share one CPF.
type RecidivismRecord struct {
	CPF          string `json:"cpf"`
	NomeCompleto string `json:"nomecompleto"`
	NumerosBO    string `json:"numeros_do_bo"`
	Quantidade   int    `json:"quantidade"`
}

// BOs returns the individual report numbers of the record.
func (r RecidivismRecord) BOs() []string {
	return SplitBOs(r.NumerosBO)
}

// Tier returns the risk tier for the record's count.
func (r RecidivismRecord) Tier() RiskTier {
	return TierFor(r.Quantidade)
}

// PhoneRecidivismRecord aggregates offender rows that share one phone number.
type PhoneRecidivismRecord struct {
	Telefone   string `json:"telefone"`
	Nomes      string `json:"nomes"`
	NumerosBO  string `json:"numeros_do_bo"`
	Quantidade int    `json:"quantidade"`
}

// SplitBOs splits an aggregated ", "-joined list, dropping blanks.
func SplitBOs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, BOSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RiskTier classifies an offender by number of occurrences.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// TierFor maps an occurrence count to its tier: more than 5 is high,
// 4 or 5 is medium, anything else is low.
func TierFor(count int) RiskTier {
	switch {
	case count > 5:
		return RiskHigh
	case count >= 4:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Label returns the tier name shown on screen and in reports.
func (t RiskTier) Label() string {
	switch t {
	case RiskHigh:
		return "ALTO"
	case RiskMedium:
		return "MÉDIO"
	default:
		return "BAIXO"
	}
}

// Advice returns the recommendation printed with the tier.
func (t RiskTier) Advice() string {
	switch t {
	case RiskHigh:
		return "Reincidência elevada. Recomenda-se priorizar a investigação e o cruzamento dos B.O.s listados."
	case RiskMedium:
		return "Reincidência moderada. Recomenda-se acompanhar novos registros vinculados a este CPF."
	default:
		return "Reincidência baixa. Manter monitoramento de rotina."
	}
}
