package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotGlobals(t *testing.T) {
	t.Helper()
	c, bird, pipe, sim, lobby, game := *C, Bird, Pipe, Sim, Lobby, Game
	t.Cleanup(func() {
		*C, Bird, Pipe, Sim, Lobby, Game = c, bird, pipe, sim, lobby, game
	})
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flaparena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverlaysOnlyGivenKeys(t *testing.T) {
	snapshotGlobals(t)

	path := writeConfig(t, `
window:
  width: 800
lobby:
  host: lobby.example:9000
  readyOnOpen: true
pipe:
  gapSize: 200
`)
	require.NoError(t, Load(path))

	assert.Equal(t, 800, C.Width)
	assert.Equal(t, 720, C.Height)
	assert.Equal(t, "lobby.example:9000", Lobby.Host)
	assert.True(t, Lobby.ReadyOnOpen)
	assert.Equal(t, 200.0, Pipe.GapSize)
	assert.Equal(t, 450.0, Pipe.HorizontalGap)
	assert.Equal(t, 0.5, Bird.Gravity)
}

func TestLoadRejectsInvalidTickRate(t *testing.T) {
	snapshotGlobals(t)

	path := writeConfig(t, "sim:\n  tickRate: 0\n")
	err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tickRate")
	assert.Equal(t, 60, Sim.TickRate)
}

func TestLoadRejectsBrokenGeometry(t *testing.T) {
	cases := map[string]string{
		"window.height":  "window:\n  height: 50\n",
		"pipe.speed":     "pipe:\n  speed: -2\n",
		"pipe.gapTopMin": "pipe:\n  gapTopMin: 10\n",
		"sim.tickRate":   "sim:\n  tickRate: 2000000000\n",
	}
	for field, body := range cases {
		t.Run(field, func(t *testing.T) {
			snapshotGlobals(t)

			err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
			assert.Equal(t, 720, C.Height)
			assert.Equal(t, 2.0, Pipe.Speed)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	snapshotGlobals(t)

	err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTickPeriod(t *testing.T) {
	assert.Equal(t, time.Second/60, SimConfig{TickRate: 60}.TickPeriod())
}
