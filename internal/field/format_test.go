package field

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCPF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "123.4"},
		{"123456", "123.456"},
		{"1234567", "123.456.7"},
		{"123456789", "123.456.789"},
		{"1234567890", "123.456.789-0"},
		{"12345678901", "123.456.789-01"},
		{"123456789012345", "123.456.789-01"},
		{"123.456.789-01", "123.456.789-01"},
		{"abc", ""},
		{" 12a3 ", "123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCPF(tt.in), "input %q", tt.in)
	}
}

func TestFormatCPF_PreservesDigits(t *testing.T) {
	const all = "98765432100"
	for n := 0; n <= len(all); n++ {
		in := all[:n]
		out := FormatCPF(in)
		assert.Equal(t, in, Digits(out), "length %d", n)
		assert.LessOrEqual(t, len(out), 14, "length %d", n)
	}
}

func TestFormatCPF_RandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	alphabet := "0123456789.-/ abc"
	for i := 0; i < 500; i++ {
		var b strings.Builder
		n := r.Intn(20)
		for j := 0; j < n; j++ {
			b.WriteByte(alphabet[r.Intn(len(alphabet))])
		}
		in := b.String()
		out := FormatCPF(in)

		want := Digits(in)
		if len(want) > 11 {
			want = want[:11]
		}
		assert.Equal(t, want, Digits(out), "input %q", in)
		assert.LessOrEqual(t, len(out), 14, "input %q", in)
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"6", "6"},
		{"61", "61"},
		{"619", "(61)9"},
		{"619999", "(61)9999"},
		{"619999888", "(61)9999888"},
		{"6133334444", "(61)3333-4444"},
		{"61999998888", "(61)99999-8888"},
		{"(61) 99999-8888", "(61)99999-8888"},
		{"6199999888877", "(61)99999-8888"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhone(tt.in), "input %q", tt.in)
	}
}

func TestStripAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"João", "Joao"},
		{"Conceição", "Conceicao"},
		{"ÁÉÍÓÚ àèìòù âêô ãõ ç", "AEIOU aeiou aeo ao c"},
		{"Maria Silva", "Maria Silva"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripAccents(tt.in))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jose conceicao", NormalizeName("  José CONCEIÇÃO "))
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Estelionato", 2, "Estelionato"},
		{"Estelionato eletrônico", 2, "Estelionato eletrônico"},
		{"Estelionato mediante fraude eletrônica", 2, "Estelionato mediante..."},
		{"", 2, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateWords(tt.in, tt.n))
	}
}
