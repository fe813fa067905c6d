package simulation

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	results []*Result
}

func (r *recorder) Observe(res *Result) {
	r.results = append(r.results, res)
}

func config(method encoding.Method, d int, p float64) Config {
	cfg := DefaultConfig()
	cfg.Method = method
	cfg.D = d
	cfg.P = p
	return cfg
}

func TestRunWithoutNoiseSucceedsFirstTime(t *testing.T) {
	for _, seed := range []int64{1, 2, 99} {
		for _, cfg := range []Config{
			config(encoding.ParityBit, 9, 0),
			config(encoding.ParityMatrix, 16, 0),
			config(encoding.ParityMatrix, 25, 0),
		} {
			sim, err := New(cfg, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			res, err := sim.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 1, res.Attempts)
			assert.Equal(t, 1.0, res.Efficiency)
			assert.True(t, res.Converged)
			assert.Equal(t, 0, res.FlippedBits)
			assert.Equal(t, 0, res.ResidualErrors)
			assert.Equal(t, 0.0, res.FinalP)
		}
	}
}

func TestSimulateWithoutNoise(t *testing.T) {
	eff, err := Simulate(9, 0, encoding.ParityBit)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eff)
}

func TestRunTerminatesAsPDecays(t *testing.T) {
	for _, method := range encoding.Methods {
		cfg := config(method, 25, 0.05)
		cfg.Epsilon = 0.001
		cfg.Seed = 4

		sim, err := New(cfg, nil)
		require.NoError(t, err)
		res, err := sim.Run(context.Background())
		require.NoError(t, err)

		bound := int(math.Ceil(cfg.P/cfg.Epsilon)) + 2
		assert.True(t, res.Converged)
		assert.LessOrEqual(t, res.Attempts, bound)
		assert.GreaterOrEqual(t, res.FinalP, 0.0)
		assert.InDelta(t, math.Max(0, cfg.P-float64(res.Attempts-1)*cfg.Epsilon), res.FinalP, 1e-9)
		assert.Equal(t, 1/float64(res.Attempts), res.Efficiency)
		if res.Attempts > 1 {
			assert.Greater(t, res.Rejected, 0)
		}
	}
}

func TestRunWithDefaultEpsilon(t *testing.T) {
	cfg := config(encoding.ParityMatrix, 9, 0.01)
	sim, err := New(cfg, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Attempts, 1002)
	assert.Greater(t, res.Efficiency, 0.0)
	assert.LessOrEqual(t, res.Efficiency, 1.0)
}

func TestRunIsReproducible(t *testing.T) {
	cfg := config(encoding.ParityBit, 16, 0.005)
	cfg.Seed = 1234

	run := func() *Result {
		sim, err := New(cfg, nil)
		require.NoError(t, err)
		res, err := sim.Run(context.Background())
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.Attempts, b.Attempts)
	assert.Equal(t, a.FlippedBits, b.FlippedBits)
	assert.Equal(t, a.FinalP, b.FinalP)
}

func TestRunAttemptCap(t *testing.T) {
	cfg := config(encoding.ParityBit, 9, 0.5)
	cfg.MaxAttempts = 3
	obs := &recorder{}

	sim, err := New(cfg, rand.New(rand.NewSource(1)), WithObserver(obs))
	require.NoError(t, err)
	res, err := sim.Run(context.Background())

	require.ErrorIs(t, err, ErrNotConverged)
	require.NotNil(t, res)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 0.0, res.Efficiency)
	assert.InDelta(t, 0.5-3*cfg.Epsilon, res.FinalP, 1e-12)
	require.Len(t, obs.results, 1)
	assert.Same(t, res, obs.results[0])
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim, err := New(config(encoding.ParityBit, 9, 0.1), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesConvergedRun(t *testing.T) {
	obs := &recorder{}
	sim, err := New(config(encoding.ParityMatrix, 16, 0), rand.New(rand.NewSource(1)), WithObserver(obs))
	require.NoError(t, err)
	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, obs.results, 1)
	assert.Same(t, res, obs.results[0])
	assert.Equal(t, encoding.ParityMatrix, sim.Scheme().Method())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		cause  error
	}{
		{"empty message", func(c *Config) { c.MessageLength = 0 }, nil},
		{"p too big", func(c *Config) { c.P = 1 }, nil},
		{"negative p", func(c *Config) { c.P = -0.1 }, nil},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }, nil},
		{"negative cap", func(c *Config) { c.MaxAttempts = -1 }, nil},
		{"no decay no cap", func(c *Config) { c.Epsilon = 0 }, nil},
		{"not square", func(c *Config) { c.Method = encoding.ParityMatrix; c.D = 10 }, encoding.ErrNotPerfectSquare},
		{"tiny d", func(c *Config) { c.D = 1 }, encoding.ErrInvalidBlockSize},
		{"unknown method", func(c *Config) { c.Method = "crc" }, encoding.ErrUnknownMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			_, err = New(cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.Epsilon = 0
	cfg.MaxAttempts = 10
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultMessageLength, cfg.MessageLength)
	assert.Equal(t, DefaultEpsilon, cfg.Epsilon)
	assert.Equal(t, encoding.ParityBit, cfg.Method)
	assert.NoError(t, cfg.Validate())
}
