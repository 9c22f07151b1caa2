package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"searchgate/config"
	"searchgate/core/types"
)

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, "[SearchGate] ❌ Invalid search request ID",
		FormatNotification(types.Notification{Author: "SearchGate", Content: "❌ Invalid search request ID"}))

	assert.Equal(t, "[System] done", FormatNotification(types.Notification{Content: "done\n"}))

	multi := FormatNotification(types.Notification{Author: "SearchGate", Content: "Found 1 results for \"go\":\n\n1. Go\n   URL: https://go.dev"})
	assert.Equal(t, "[SearchGate] Found 1 results for \"go\":\n   \n   1. Go\n      URL: https://go.dev", multi)
}

func TestDisplayNotification(t *testing.T) {
	var buf bytes.Buffer
	DisplayNotification(&buf, types.Notification{Author: "SearchGate", Content: "⌛ Search request expired"})
	assert.Equal(t, "\n[SearchGate] ⌛ Search request expired\n\n", buf.String())
}

func TestPrintHelpUsesConfiguredTokens(t *testing.T) {
	cfg := config.Default().Search
	cfg.ConfirmPrefix = "/ok"

	var buf bytes.Buffer
	PrintHelp(&buf, cfg)
	assert.Contains(t, buf.String(), "/search <query>")
	assert.Contains(t, buf.String(), "/ok <id>")
	assert.Contains(t, buf.String(), "once every 15s")
	assert.Contains(t, buf.String(), `[SEARCH] "query"`)
}
