// Package domain contains core business types and interfaces.
//
// This file defines the Person record ("envolvido"): one row per person
// involved in a police report (B.O.), carrying both the person data and a
// copy of the report and incident data it came from.
package domain

import (
	"strings"
	"time"
)

// Role values as they appear in imported reports.
const (
	RoleOffender        = "Suposto Autor/infrator"
	RoleVictim          = "Vítima"
	RoleVictimReporting = "Comunicante, Vítima"
)

// VictimRoles lists the role values counted as victims by the dashboard.
var VictimRoles = []string{RoleVictimReporting, RoleVictim}

// IsOffenderRole reports whether a free-text role labels an offender.
// Matching is case-insensitive on the substrings "autor" and "infrator",
// so "Suposto Autor/infrator" and "autor" both qualify.
func IsOffenderRole(role string) bool {
	r := strings.ToLower(role)
	return strings.Contains(r, "autor") || strings.Contains(r, "infrator")
}

// Person is a person record joined with its report and incident data.
//
// Dates (nascimento, data_fato) are kept as the dd/mm/yyyy strings found in
// the imported spreadsheets. CPF and phone are stored as received; clients
// format them for display.
type Person struct {
	ID                    int64  `json:"id"`
	NumeroBO              string `json:"numero_do_bo"`
	TipoEnvolvido         string `json:"tipo_envolvido"`
	NomeCompleto          string `json:"nomecompleto"`
	CPF                   string `json:"cpf"`
	NomeMae               string `json:"nomedamae"`
	Nascimento            string `json:"nascimento"`
	Nacionalidade         string `json:"nacionalidade"`
	Naturalidade          string `json:"naturalidade"`
	UFEnvolvido           string `json:"uf_envolvido"`
	SexoEnvolvido         string `json:"sexo_envolvido"`
	TelefoneEnvolvido     string `json:"telefone_envolvido"`
	DataFato              string `json:"data_fato"`
	CEPFato               string `json:"cep_fato,omitempty"`
	LatitudeFato          string `json:"latitude_fato,omitempty"`
	LongitudeFato         string `json:"longitude_fato,omitempty"`
	LogradouroFato        string `json:"logradouro_fato,omitempty"`
	NumeroCasaFato        string `json:"numerocasa_fato,omitempty"`
	BairroFato            string `json:"bairro_fato,omitempty"`
	MunicipioFato         string `json:"municipio_fato,omitempty"`
	PaisFato              string `json:"pais_fato,omitempty"`
	DelegaciaResponsavel  string `json:"delegacia_responsavel"`
	Situacao              string `json:"situacao"`
	Natureza              string `json:"natureza"`
	RelatoHistorico       string `json:"relato_historico,omitempty"`
	InstituicaoBancaria   string `json:"instituicao_bancaria,omitempty"`
	EnderecoIP            string `json:"endereco_ip,omitempty"`
	Valor                 string `json:"valor,omitempty"`
	PixUtilizado          string `json:"pix_utilizado,omitempty"`
	NumeroContaBancaria   string `json:"numero_conta_bancaria,omitempty"`
	NumeroBoleto          string `json:"numero_boleto,omitempty"`
	ProcessoBanco         string `json:"processo_banco,omitempty"`
	NumeroAgenciaBancaria string `json:"numero_agencia_bancaria,omitempty"`
	Cartao                string `json:"cartao,omitempty"`
	Terminal              string `json:"terminal,omitempty"`
	TipoPagamento         string `json:"tipo_pagamento,omitempty"`
	OrgaoConcessionaria   string `json:"orgao_concessionaria,omitempty"`
	Veiculo               string `json:"veiculo,omitempty"`
	TerminalConexao       string `json:"terminal_conexao,omitempty"`
	ERB                   string `json:"erb,omitempty"`
	OperacaoPolicial      string `json:"operacao_policial,omitempty"`
	NumeroLaudoPericial   string `json:"numero_laudo_pericial,omitempty"`
}

// IsOffender reports whether the record's role is an offender role.
func (p *Person) IsOffender() bool {
	return IsOffenderRole(p.TipoEnvolvido)
}

// SearchParams holds normalized server-side search criteria. Empty fields
// are not applied.
type SearchParams struct {
	Nome     string // accent-folded, lower-cased
	CPF      string // digits only
	BO       string
	Telefone string // digits only
	Page     int
	Limit    int
}

// Offset returns the row offset for the requested page.
func (p SearchParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// HasCriteria reports whether at least one filter is set.
func (p SearchParams) HasCriteria() bool {
	return p.Nome != "" || p.CPF != "" || p.BO != "" || p.Telefone != ""
}

// isoDateLayout is the date format accepted on manual registration.
const isoDateLayout = "2006-01-02"

// brDateLayout is the date format stored for imported and registered records.
const brDateLayout = "02/01/2006"

// ToBRDate converts a yyyy-mm-dd date to dd/mm/yyyy. Values already in the
// Brazilian layout, or empty, are returned unchanged.
func ToBRDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(brDateLayout, s); err == nil {
		return s, nil
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(brDateLayout), nil
}
