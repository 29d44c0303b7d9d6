package field

import (
	"strings"
	"unicode/utf8"
)

// Minimum lengths a filter field must reach before it is worth sending.
const (
	MinNome     = 3
	MinBO       = 3
	MinTelefone = 3
)

// FilterSet is the raw input of a person search. Each field is optional.
type FilterSet struct {
	Nome     string
	CPF      string
	BO       string
	Telefone string
}

// NomeValid reports whether the name has at least 3 characters after trimming.
func (f FilterSet) NomeValid() bool {
	return utf8.RuneCountInString(strings.TrimSpace(f.Nome)) >= MinNome
}

// CPFValid reports whether the CPF has exactly 11 digits.
func (f FilterSet) CPFValid() bool {
	return len(Digits(f.CPF)) == cpfDigits
}

// BOValid reports whether the B.O. number has at least 3 characters after trimming.
func (f FilterSet) BOValid() bool {
	return utf8.RuneCountInString(strings.TrimSpace(f.BO)) >= MinBO
}

// TelefoneValid reports whether the phone has at least 3 digits. Phones are
// matched on digits only, so punctuation does not count.
func (f FilterSet) TelefoneValid() bool {
	return len(Digits(f.Telefone)) >= MinTelefone
}

// Valid reports whether at least one field passes its gate.
func (f FilterSet) Valid() bool {
	return f.NomeValid() || f.CPFValid() || f.BOValid() || f.TelefoneValid()
}

// IsEmpty reports whether every field is blank.
func (f FilterSet) IsEmpty() bool {
	return strings.TrimSpace(f.Nome) == "" && strings.TrimSpace(f.CPF) == "" &&
		strings.TrimSpace(f.BO) == "" && strings.TrimSpace(f.Telefone) == ""
}
