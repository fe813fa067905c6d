package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

const (
	DefaultMessageLength = 500
	DefaultEpsilon       = 0.00001
)

// Config describes one simulation run.
type Config struct {
	MessageLength int
	D             int
	P             float64
	Method        encoding.Method
	// Epsilon is subtracted from P after every rejected transmission.
	Epsilon float64
	// MaxAttempts caps the retransmissions; 0 leaves the loop uncapped.
	MaxAttempts int
	// Seed for the run's random source; 0 seeds from the clock.
	Seed int64
}

func init() {
	viper.SetDefault("MessageLength", DefaultMessageLength)
	viper.SetDefault("D", 9)
	viper.SetDefault("P", 0.01)
	viper.SetDefault("Method", string(encoding.ParityBit))
	viper.SetDefault("Epsilon", DefaultEpsilon)
	viper.SetDefault("MaxAttempts", 0)
	viper.SetDefault("Seed", 0)
}

func DefaultConfig() Config {
	return Config{
		MessageLength: DefaultMessageLength,
		D:             9,
		P:             0.01,
		Method:        encoding.ParityBit,
		Epsilon:       DefaultEpsilon,
	}
}

// LoadConfig reads the run configuration from viper.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal simulation config: %w", err)
	}
	return cfg, nil
}

// Validate checks the run parameters, including whether D suits the method.
func (c Config) Validate() error {
	if c.MessageLength < 1 {
		return fmt.Errorf("%w: message length %d", ErrInvalidConfig, c.MessageLength)
	}
	if c.P < 0 || c.P >= 1 {
		return fmt.Errorf("%w: p=%v outside [0,1)", ErrInvalidConfig, c.P)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("%w: negative epsilon %v", ErrInvalidConfig, c.Epsilon)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: negative attempt cap %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Epsilon == 0 && c.P > 0 && c.MaxAttempts == 0 {
		return fmt.Errorf("%w: epsilon 0 with p=%v needs an attempt cap", ErrInvalidConfig, c.P)
	}
	if _, err := encoding.NewScheme(c.Method, c.D); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) seed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
