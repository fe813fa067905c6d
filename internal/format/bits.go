package format

import (
	"errors"
	"fmt"
	"strings"
)

// Bit holds a single binary digit, Zero or One.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

var ErrInvalidSize = errors.New("message size must be positive")

// Source is the random stream the generator and the channel draw from.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Flip returns the opposite bit.
func Flip(b Bit) Bit {
	return 1 - b
}

// Parity is the sum of bits mod 2.
func Parity(bits []Bit) Bit {
	var p Bit
	for _, b := range bits {
		p ^= b & 1
	}
	return p
}

func Weight(bits []Bit) int {
	w := 0
	for _, b := range bits {
		if b == One {
			w++
		}
	}
	return w
}

// Distance counts the positions where a and b differ. Surplus bits of the
// longer slice count as differences.
func Distance(a, b []Bit) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	d := len(b) - len(a)
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func bitString(bits []Bit) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		switch b {
		case Zero:
			sb.WriteByte('0')
		case One:
			sb.WriteByte('1')
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Message is the payload handed to an encoder. Encoders never modify it.
type Message []Bit

// Generate draws size independent uniform bits from src.
func Generate(size int, src Source) (Message, error) {
	if size < 1 {
		return nil, fmt.Errorf("generate %d bits: %w", size, ErrInvalidSize)
	}
	msg := make(Message, size)
	for i := range msg {
		msg[i] = Bit(src.Intn(2))
	}
	return msg, nil
}

// ParseMessage reads a string of '0' and '1' characters.
func ParseMessage(s string) (Message, error) {
	msg := make(Message, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			msg = append(msg, Zero)
		case '1':
			msg = append(msg, One)
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d", c, i)
		}
	}
	return msg, nil
}

func (m Message) Clone() Message {
	out := make(Message, len(m))
	copy(out, m)
	return out
}

func (m Message) String() string {
	return bitString(m)
}
