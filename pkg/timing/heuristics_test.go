package timing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postflow/pkg/timing"
)

func TestDefaultHeuristics(t *testing.T) {
	t.Parallel()

	require.NoError(t, timing.DefaultHeuristics().Validate())
}

func TestHeuristics_WindowsFor(t *testing.T) {
	t.Parallel()

	h := timing.DefaultHeuristics()

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		t.Parallel()

		windows := h.WindowsFor("r/Workday-Devs")
		require.NotEmpty(t, windows)
		assert.Equal(t, 17, windows[0].StartHour)
		assert.Equal(t, 22, windows[0].EndHour)
	})

	t.Run("weekend destinations", func(t *testing.T) {
		t.Parallel()

		windows := h.WindowsFor("weekend-gamers")
		require.NotEmpty(t, windows)
		assert.Equal(t, 14, windows[0].StartHour)
	})

	t.Run("international destinations", func(t *testing.T) {
		t.Parallel()

		windows := h.WindowsFor("international-news")
		require.Len(t, windows, 3)
	})

	t.Run("unknown names get the default set", func(t *testing.T) {
		t.Parallel()

		windows := h.WindowsFor("r/golang")
		require.NotEmpty(t, windows)
		assert.Equal(t, 18, windows[0].StartHour)
		assert.Equal(t, 23, windows[0].EndHour)
	})
}

func TestWindow_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window timing.Window
		want   bool
	}{
		{"evening window", timing.Window{StartHour: 18, EndHour: 23, Confidence: 1.0}, true},
		{"end of day", timing.Window{StartHour: 22, EndHour: 24, Confidence: 0.5}, true},
		{"start after end", timing.Window{StartHour: 14, EndHour: 12, Confidence: 0.5}, false},
		{"empty range", timing.Window{StartHour: 12, EndHour: 12, Confidence: 0.5}, false},
		{"negative start", timing.Window{StartHour: -1, EndHour: 5, Confidence: 0.5}, false},
		{"end past midnight", timing.Window{StartHour: 20, EndHour: 25, Confidence: 0.5}, false},
		{"zero confidence", timing.Window{StartHour: 18, EndHour: 23}, false},
		{"confidence above one", timing.Window{StartHour: 18, EndHour: 23, Confidence: 1.2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.window.Valid())
		})
	}
}

func TestLoadHeuristics(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "heuristics.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
rules:
  - contains: gaming
    windows:
      - start_hour: 19
        end_hour: 23
        confidence: 1.0
default:
  - start_hour: 18
    end_hour: 22
    confidence: 1.0
`)

		h, err := timing.LoadHeuristics(path)
		require.NoError(t, err)

		windows := h.WindowsFor("late-night-gaming")
		require.Len(t, windows, 1)
		assert.Equal(t, 19, windows[0].StartHour)
		assert.Equal(t, 23, windows[0].EndHour)

		assert.Equal(t, 18, h.WindowsFor("anything-else")[0].StartHour)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := timing.LoadHeuristics(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, timing.ErrInvalidHeuristics)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := timing.LoadHeuristics(writeFile(t, "rules: ["))
		require.ErrorIs(t, err, timing.ErrInvalidHeuristics)
	})

	t.Run("invalid window", func(t *testing.T) {
		t.Parallel()

		_, err := timing.LoadHeuristics(writeFile(t, `
default:
  - start_hour: 14
    end_hour: 12
    confidence: 1.0
`))
		require.ErrorIs(t, err, timing.ErrInvalidHeuristics)
	})

	t.Run("empty default set", func(t *testing.T) {
		t.Parallel()

		_, err := timing.LoadHeuristics(writeFile(t, `
rules:
  - contains: gaming
    windows:
      - start_hour: 19
        end_hour: 23
        confidence: 1.0
`))
		require.ErrorIs(t, err, timing.ErrInvalidHeuristics)
	})
}
