// Package channel models a binary symmetric channel: each transmitted bit is
// flipped independently with probability p.
package channel

import (
	"errors"
	"fmt"

	"github.com/harlequix/paritysim/internal/format"
)

var ErrInvalidProbability = errors.New("flip probability must be in [0,1)")

// Channel flips bits with a fixed probability drawn from its own source.
type Channel struct {
	p     float64
	src   format.Source
	flips int
}

func New(p float64, src format.Source) (*Channel, error) {
	if p < 0 || p >= 1 {
		return nil, fmt.Errorf("p=%v: %w", p, ErrInvalidProbability)
	}
	return &Channel{p: p, src: src}, nil
}

func (c *Channel) P() float64 {
	return c.p
}

// Flips is the number of bits the last Corrupt call flipped.
func (c *Channel) Flips() int {
	return c.flips
}

// Corrupt transmits a copy of cw and returns what the receiver sees.
// cw itself is left untouched.
func (c *Channel) Corrupt(cw format.Codeword) format.Codeword {
	noisy := cw.Clone()
	c.flips = 0
	noisy.Each(func(b *format.Bit) {
		if c.flip() {
			*b = format.Flip(*b)
			c.flips++
		}
	})
	return noisy
}

func (c *Channel) flip() bool {
	if c.p <= 0 {
		return false
	}
	if c.p >= 1 {
		return true
	}
	return c.src.Float64() < c.p
}

// Corrupt is a one-shot transmission at probability p. Values outside [0,1)
// are clamped: p <= 0 never flips and p >= 1 always flips.
func Corrupt(cw format.Codeword, p float64, src format.Source) format.Codeword {
	c := &Channel{p: p, src: src}
	return c.Corrupt(cw)
}
