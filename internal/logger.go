package internal

import (
	"io"
	"log/slog"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/field"
)

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger returns a text logger in development and a JSON logger
// everywhere else. CPF attributes are masked before they reach w.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: maskCPFAttr,
	}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func maskCPFAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != "cpf" || a.Value.Kind() != slog.KindString {
		return a
	}
	return slog.String(a.Key, MaskCPF(a.Value.String()))
}

// MaskCPF keeps only the last two digits of a CPF.
func MaskCPF(raw string) string {
	digits := field.Digits(raw)
	if len(digits) < 2 {
		return "***"
	}
	return "***.***.***-" + digits[len(digits)-2:]
}
