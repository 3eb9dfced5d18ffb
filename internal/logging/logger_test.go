package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestOpenEmptyPathIsDisabled(t *testing.T) {
	l, closer, err := Open("  ", "debug")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestOpenWritesJSONAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "holocron.log")
	l, closer, err := Open(path, "warn")
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Int("page", 2).Msg("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "shown", entry["message"])
	require.Equal(t, "warn", entry["level"])
	require.EqualValues(t, 2, entry["page"])
	require.Contains(t, entry, "time")
}

func TestOpenBadLevel(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)
}

func TestParseLevelDefault(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, lvl)
}

func TestLeveledAdapter(t *testing.T) {
	var buf bytes.Buffer
	lg := Leveled(New(&buf, zerolog.DebugLevel))

	lg.Error("request failed", "url", "http://x/people/?page=2", "error", errors.New("refused"))
	lg.Warn("odd", "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "error", first["level"])
	require.Equal(t, "http", first["component"])
	require.Equal(t, "http://x/people/?page=2", first["url"])
	require.Equal(t, "refused", first["error"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "dangling", second["extra"])
}
