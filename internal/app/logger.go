package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. JSON output is for deployed
// clinics, text for local runs. Every line carries the service tag.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("servico", "clinica"))
}
