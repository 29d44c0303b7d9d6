// Package search runs the faceted person search of the CLI: it turns a
// filter set into a query, calls the API and keeps the current page.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/field"
)

// Cursor is the requested page and page size.
type Cursor struct {
	Page  int
	Limit int
}

// Param is one query parameter.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered list of query parameters.
type Params []Param

// Get returns the value of name and whether it is present.
func (p Params) Get(name string) (string, bool) {
	for _, kv := range p {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return "", false
}

// Encode renders the parameters in their fixed order (not sorted).
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// BuildQuery serializes a filter set and cursor as nome, cpf, bo, telefone,
// page, limit. A filter is included only when it passes its own gate. The
// name is sent accent-folded and lower-cased, the CPF as digits.
func BuildQuery(fs field.FilterSet, c Cursor) Params {
	params := make(Params, 0, 6)
	if fs.NomeValid() {
		params = append(params, Param{"nome", field.NormalizeName(fs.Nome)})
	}
	if fs.CPFValid() {
		params = append(params, Param{"cpf", field.Digits(fs.CPF)})
	}
	if fs.BOValid() {
		params = append(params, Param{"bo", strings.TrimSpace(fs.BO)})
	}
	if fs.TelefoneValid() {
		params = append(params, Param{"telefone", strings.TrimSpace(fs.Telefone)})
	}
	params = append(params,
		Param{"page", strconv.Itoa(c.Page)},
		Param{"limit", strconv.Itoa(c.Limit)},
	)
	return params
}
