package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/harlequix/paritysim/channel"
	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/internal/format"
	log "github.com/harlequix/paritysim/log"
	"github.com/sirupsen/logrus"
)

var ErrNotConverged = errors.New("transmission did not converge")

var logger *log.Logger

func init() {
	logger = log.NewLogger("Simulator")
}

// Observer is told about every finished run, converged or not.
type Observer interface {
	Observe(res *Result)
}

type Option func(*Simulator)

func WithObserver(o Observer) Option {
	return func(s *Simulator) {
		s.observer = o
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// Simulator runs the encode, corrupt, validate, retransmit loop for one
// configuration. It is not safe for concurrent use; give every goroutine
// its own Simulator and source.
type Simulator struct {
	cfg      Config
	scheme   encoding.Scheme
	src      format.Source
	observer Observer
	logger   *log.Logger
}

// New validates cfg. A nil src is replaced by a math/rand source seeded from
// cfg.Seed.
func New(cfg Config, src format.Source, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scheme, err := encoding.NewScheme(cfg.Method, cfg.D)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(rand.NewSource(cfg.seed()))
	}
	s := &Simulator{
		cfg:    cfg,
		scheme: scheme,
		src:    src,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) Scheme() encoding.Scheme {
	return s.scheme
}

// Run generates and encodes one message, then retransmits fresh noisy copies
// until the receiver accepts one. P drops by Epsilon after every rejection,
// so the loop ends once P reaches zero at the latest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	msg, err := format.Generate(s.cfg.MessageLength, s.src)
	if err != nil {
		return nil, err
	}
	encoded, err := s.scheme.Encode(msg)
	if err != nil {
		return nil, err
	}

	res := &Result{Config: s.cfg}
	p := s.cfg.P
	for !res.Converged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.cfg.MaxAttempts > 0 && res.Attempts >= s.cfg.MaxAttempts {
			s.finish(res, p, start)
			s.logger.WithFields(logrus.Fields{
				"method":   s.cfg.Method,
				"d":        s.cfg.D,
				"attempts": res.Attempts,
				"p":        p,
			}).Warn("giving up")
			return res, fmt.Errorf("%s d=%d p=%v after %d attempts: %w",
				s.cfg.Method, s.cfg.D, s.cfg.P, res.Attempts, ErrNotConverged)
		}

		res.Attempts++
		ch, err := channel.New(p, s.src)
		if err != nil {
			return nil, err
		}
		noisy := ch.Corrupt(encoded)
		res.FlippedBits += ch.Flips()

		verdict, err := s.scheme.Validate(noisy)
		if err != nil {
			return nil, err
		}
		if verdict.OK() {
			decoded, err := s.scheme.Decode(noisy, len(msg))
			if err != nil {
				return nil, err
			}
			res.Corrected = verdict.Corrected
			res.ResidualErrors = format.Distance(msg, decoded)
			res.Converged = true
			break
		}

		res.Rejected += verdict.Rejected
		s.logger.WithFields(logrus.Fields{
			"attempt":  res.Attempts,
			"p":        p,
			"flips":    ch.Flips(),
			"rejected": verdict.Rejected,
		}).Trace("retransmit")
		p -= s.cfg.Epsilon
		if p < 0 {
			p = 0
		}
	}

	s.finish(res, p, start)
	s.logger.WithFields(logrus.Fields{
		"method":     s.cfg.Method,
		"d":          s.cfg.D,
		"p":          s.cfg.P,
		"attempts":   res.Attempts,
		"efficiency": res.Efficiency,
	}).Debug("transmission accepted")
	return res, nil
}

func (s *Simulator) finish(res *Result, p float64, start time.Time) {
	res.FinalP = p
	res.Duration = time.Since(start)
	if res.Converged {
		res.Efficiency = 1 / float64(res.Attempts)
	}
	if s.observer != nil {
		s.observer.Observe(res)
	}
}

// Simulate runs one default-sized transmission for (d, p, method) on a
// clock-seeded source and returns its efficiency.
func Simulate(d int, p float64, method encoding.Method) (float64, error) {
	cfg := DefaultConfig()
	cfg.D = d
	cfg.P = p
	cfg.Method = method
	sim, err := New(cfg, nil)
	if err != nil {
		return 0, err
	}
	res, err := sim.Run(context.Background())
	if err != nil {
		return 0, err
	}
	return res.Efficiency, nil
}
