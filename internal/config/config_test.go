package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
url = "http://localhost:8080/"
tps = 30
timeout = "5s"

[[element]]
id = "score"
x = 16
y = 12
alpha = 0.8

  [[element.tween]]
  kind = "position"
  to = [200, 12]
  duration = 1.5
  ease = "OutQuad"

[[element]]
id = "banner"
name = "top-banner"
scale_x = 2
hidden = true
`

const sampleYAML = `
frames: 30
elements:
  - id: score
    x: 16
    y: 12
    rotation: 90
    tweens:
      - kind: alpha
        to: [0]
        duration: 0.5
`

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), ".toml")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/", cfg.URL)
	assert.Equal(t, 30, cfg.TPS)
	assert.Equal(t, DefaultFrames, cfg.Frames)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.NeedsBrowser())

	require.Len(t, cfg.Elements, 2)
	score := cfg.Elements[0]
	assert.Equal(t, "score", score.Name, "name defaults to id")
	require.NotNil(t, score.Alpha)
	assert.InDelta(t, 0.8, *score.Alpha, 1e-9)
	assert.Nil(t, score.ScaleX)
	require.Len(t, score.Tweens, 1)
	assert.Equal(t, []float64{200, 12}, score.Tweens[0].To)

	banner := cfg.Elements[1]
	assert.Equal(t, "top-banner", banner.Name)
	require.NotNil(t, banner.ScaleX)
	assert.Equal(t, 2.0, *banner.ScaleX)
	assert.True(t, banner.Hidden)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)

	assert.False(t, cfg.NeedsBrowser())
	assert.Equal(t, DefaultTPS, cfg.TPS)
	assert.Equal(t, 30, cfg.Frames)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Len(t, cfg.Elements, 1)
	assert.Equal(t, 90.0, cfg.Elements[0].Rotation)
	assert.Equal(t, "linear", cfg.Elements[0].Tweens[0].Ease, "ease defaults to linear")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("colour = 1\n[[element]]\nid = \"a\"\n"), ".toml")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("colour: 1\nelements:\n  - id: a\n"), ".yaml")
	assert.Error(t, err)
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), ".json")
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestValidate(t *testing.T) {
	alpha := 1.5
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no elements", Config{}, "no elements"},
		{"missing id", Config{Elements: []Element{{}}}, "missing id"},
		{"duplicate id", Config{Elements: []Element{{ID: "a"}, {ID: "a"}}}, "duplicate id"},
		{"alpha range", Config{Elements: []Element{{ID: "a", Alpha: &alpha}}}, "outside [0,1]"},
		{"unknown kind", Config{Elements: []Element{{ID: "a", Tweens: []Tween{{Kind: "spin"}}}}}, "unknown kind"},
		{"arity", Config{Elements: []Element{{ID: "a", Tweens: []Tween{{Kind: "position", To: []float64{1}, Duration: 1}}}}}, "takes 2 values"},
		{"duration", Config{Elements: []Element{{ID: "a", Tweens: []Tween{{Kind: "alpha", To: []float64{1}}}}}}, "duration must be positive"},
		{"ease", Config{Elements: []Element{{ID: "a", Tweens: []Tween{{Kind: "alpha", To: []float64{1}, Duration: 1, Ease: "wobble"}}}}}, "unknown ease"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ApplyDefaults()
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Config{TPS: -1, Frames: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "tps must be positive")
	assert.ErrorContains(t, err, "frames must be positive")
	assert.ErrorContains(t, err, "no elements")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Elements, 2)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
