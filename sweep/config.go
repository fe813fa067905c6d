package sweep

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/simulation"
	"github.com/jinzhu/copier"
	"github.com/spf13/viper"
	"golang.org/x/crypto/sha3"
)

var ErrEmptySweep = errors.New("sweep has no (d, p, method) combination")

// Config is the cross product of block sizes, flip probabilities and coding
// methods to simulate, plus the settings shared by every run.
type Config struct {
	Ds      []int
	Ps      []float64
	Methods []encoding.Method
	Workers int

	Simulation simulation.Config `mapstructure:"-"`
}

func init() {
	viper.SetDefault("Ds", []int{9, 16, 25})
	viper.SetDefault("Ps", []float64{0.0001, 0.001, 0.01, 0.05})
	viper.SetDefault("Methods", []string{string(encoding.ParityBit), string(encoding.ParityMatrix)})
	viper.SetDefault("Workers", runtime.NumCPU())
}

// LoadConfig reads the sweep lists and the shared run settings from viper.
func LoadConfig() (Config, error) {
	var cfg Config
	base, err := simulation.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal sweep config: %w", err)
	}
	cfg.Simulation = base
	return cfg, nil
}

// Validate checks every combination before anything runs, so a d that is
// not a perfect square fails the sweep up front instead of midway.
func (c Config) Validate() error {
	_, err := c.Jobs()
	return err
}

// Jobs expands the sweep into one run config per (d, p, method), ordered by
// d, then p, then method. Each job gets its own seed derived from the base
// seed and its parameters.
func (c Config) Jobs() ([]simulation.Config, error) {
	if len(c.Ds) == 0 || len(c.Ps) == 0 || len(c.Methods) == 0 {
		return nil, ErrEmptySweep
	}
	seed := c.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	jobs := make([]simulation.Config, 0, len(c.Ds)*len(c.Ps)*len(c.Methods))
	for _, d := range c.Ds {
		for _, p := range c.Ps {
			for _, method := range c.Methods {
				var job simulation.Config
				if err := copier.Copy(&job, &c.Simulation); err != nil {
					return nil, fmt.Errorf("copy base config: %w", err)
				}
				job.D = d
				job.P = p
				job.Method = method
				job.Seed = deriveSeed(seed, job)
				if err := job.Validate(); err != nil {
					return nil, fmt.Errorf("d=%d p=%v method=%s: %w", d, p, method, err)
				}
				jobs = append(jobs, job)
			}
		}
	}
	return jobs, nil
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// deriveSeed hashes the sweep seed with the job parameters so results do not
// depend on which worker picks a job up.
func deriveSeed(seed int64, job simulation.Config) int64 {
	hasher := sha3.NewCShake256(nil, []byte("paritysim"))
	var buf [8]byte
	for _, v := range []uint64{uint64(seed), uint64(job.D), math.Float64bits(job.P)} {
		binary.LittleEndian.PutUint64(buf[:], v)
		hasher.Write(buf[:])
	}
	hasher.Write([]byte(job.Method))
	hasher.Read(buf[:])
	derived := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if derived == 0 {
		derived = 1
	}
	return derived
}
