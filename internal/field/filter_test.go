package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSet_Valid(t *testing.T) {
	tests := []struct {
		name string
		fs   FilterSet
		want bool
	}{
		{"empty", FilterSet{}, false},
		{"short name", FilterSet{Nome: "Jo"}, false},
		{"name at minimum", FilterSet{Nome: "Joa"}, true},
		{"name padded with spaces", FilterSet{Nome: "  Jo  "}, false},
		{"accented name counts runes", FilterSet{Nome: "Zé"}, false},
		{"partial cpf", FilterSet{CPF: "123"}, false},
		{"full cpf", FilterSet{CPF: "12345678901"}, true},
		{"masked cpf", FilterSet{CPF: "123.456.789-01"}, true},
		{"cpf too long", FilterSet{CPF: "123456789012"}, false},
		{"short bo", FilterSet{BO: "12"}, false},
		{"bo at minimum", FilterSet{BO: "123"}, true},
		{"short phone", FilterSet{Telefone: "61"}, false},
		{"phone at minimum", FilterSet{Telefone: "619"}, true},
		{"phone without digits", FilterSet{Telefone: "abc"}, false},
		{"phone punctuation only", FilterSet{Telefone: "---"}, false},
		{"masked phone counts digits", FilterSet{Telefone: "(6)-1"}, false},
		{"masked phone at minimum", FilterSet{Telefone: "(61)9"}, true},
		{"one valid among invalid", FilterSet{Nome: "Jo", CPF: "1", BO: "12", Telefone: "9999"}, true},
		{"all invalid", FilterSet{Nome: "Jo", CPF: "1", BO: "12", Telefone: "61"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fs.Valid())
		})
	}
}

func TestFilterSet_ValidIsOrOfGates(t *testing.T) {
	values := []string{"", "ab", "abc", "12345678901"}
	for _, n := range values {
		for _, c := range values {
			for _, b := range values {
				for _, p := range values {
					fs := FilterSet{Nome: n, CPF: c, BO: b, Telefone: p}
					want := fs.NomeValid() || fs.CPFValid() || fs.BOValid() || fs.TelefoneValid()
					assert.Equal(t, want, fs.Valid(), "%+v", fs)
				}
			}
		}
	}
}

func TestFilterSet_IsEmpty(t *testing.T) {
	assert.True(t, FilterSet{Nome: "  "}.IsEmpty())
	assert.False(t, FilterSet{BO: "1"}.IsEmpty())
}
