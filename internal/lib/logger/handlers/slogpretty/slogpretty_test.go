package slogpretty_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/linemk/storefront/internal/lib/logger/handlers/slogpretty"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler_PrintsAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	opts := slogpretty.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("op", "test.op"))

	log.Warn("cart not cleared", slog.Int64("orderID", 7), slog.Any("error", errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "cart not cleared")
	assert.Contains(t, out, `"op": "test.op"`)
	assert.Contains(t, out, `"orderID": 7`)
	assert.Contains(t, out, `"error": "boom"`)
}
