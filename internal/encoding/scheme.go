package encoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harlequix/paritysim/internal/format"
)

var (
	ErrInvalidBlockSize = errors.New("invalid block size")
	ErrNotPerfectSquare = errors.New("block size is not a perfect square")
	ErrUnknownMethod    = errors.New("unknown coding method")
	ErrCodewordType     = errors.New("codeword does not belong to this scheme")
	ErrShortCodeword    = errors.New("codeword carries fewer data bits than requested")
)

// Method names a coding scheme.
type Method string

const (
	ParityBit    Method = "parity_bit"
	ParityMatrix Method = "parity_matrix"
)

// Methods lists every supported scheme in report order.
var Methods = []Method{ParityBit, ParityMatrix}

func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case ParityBit:
		return ParityBit, nil
	case ParityMatrix:
		return ParityMatrix, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMethod)
	}
}

func (m Method) String() string {
	return string(m)
}

// Verdict summarizes one validation pass over every frame of a codeword.
type Verdict struct {
	Frames    int
	Rejected  int
	Corrected int
}

// OK reports whether the receiver accepts the transmission.
func (v Verdict) OK() bool {
	return v.Rejected == 0
}

// Scheme is one error-control code with a fixed block size.
type Scheme interface {
	Method() Method
	// BlockSize is the d the scheme was built with.
	BlockSize() int
	Encode(msg format.Message) (format.Codeword, error)
	// Validate checks every frame and repairs what the code can repair, in
	// place. The codeword must come from this scheme's Encode.
	Validate(cw format.Codeword) (Verdict, error)
	// Decode strips the redundancy and returns the first size data bits.
	Decode(cw format.Codeword, size int) (format.Message, error)
}

// NewScheme validates d for the method and returns the matching scheme.
func NewScheme(method Method, d int) (Scheme, error) {
	switch method {
	case ParityBit:
		return NewParityBitScheme(d)
	case ParityMatrix:
		return NewParityMatrixScheme(d)
	default:
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownMethod)
	}
}

func truncate(data format.Message, size int) (format.Message, error) {
	if size < 0 || size > len(data) {
		return nil, fmt.Errorf("want %d bits, have %d: %w", size, len(data), ErrShortCodeword)
	}
	return data[:size], nil
}
