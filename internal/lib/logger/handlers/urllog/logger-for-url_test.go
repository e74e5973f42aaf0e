package urllog_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linemk/storefront/internal/lib/logger/handlers/urllog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEntries разбирает JSON-строки лога
func readEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := urllog.CustomLoggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart?x=1", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)

	entries := readEntries(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "request received", entries[0]["msg"])
	assert.Equal(t, "/api/cart?x=1", entries[0]["url"])
	assert.Equal(t, http.MethodGet, entries[0]["method"])
	// числа в JSON декодируются как float64
	assert.Equal(t, float64(http.StatusTeapot), entries[1]["status"])
	assert.Equal(t, "/api/cart?x=1", entries[1]["url"])
}
