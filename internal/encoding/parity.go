package encoding

import (
	"fmt"

	"github.com/harlequix/paritysim/internal/format"
)

// EncodeParityBits splits msg into chunks of d-1 bits and appends each
// chunk's parity. The final block is shorter when len(msg) is not a multiple
// of d-1; it is not padded.
func EncodeParityBits(msg format.Message, d int) (format.Blocks, error) {
	if d < 2 {
		return nil, fmt.Errorf("parity bit d=%d, need d >= 2: %w", d, ErrInvalidBlockSize)
	}
	width := d - 1
	blocks := make(format.Blocks, 0, (len(msg)+width-1)/width)
	for start := 0; start < len(msg); start += width {
		end := start + width
		if end > len(msg) {
			end = len(msg)
		}
		block := make(format.Block, 0, end-start+1)
		block = append(block, msg[start:end]...)
		block = append(block, format.Parity(block))
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// IsValid compares the parity of the data bits with the trailing parity bit.
// Any odd number of flips is caught; an even number goes unnoticed.
func IsValid(block format.Block) bool {
	if len(block) == 0 {
		return false
	}
	return format.Parity(block.Data()) == block.ParityBit()
}

type ParityBitScheme struct {
	d int
}

func NewParityBitScheme(d int) (*ParityBitScheme, error) {
	if d < 2 {
		return nil, fmt.Errorf("parity bit d=%d, need d >= 2: %w", d, ErrInvalidBlockSize)
	}
	return &ParityBitScheme{d: d}, nil
}

func (s *ParityBitScheme) Method() Method {
	return ParityBit
}

func (s *ParityBitScheme) BlockSize() int {
	return s.d
}

func (s *ParityBitScheme) Encode(msg format.Message) (format.Codeword, error) {
	return EncodeParityBits(msg, s.d)
}

func (s *ParityBitScheme) Validate(cw format.Codeword) (Verdict, error) {
	blocks, ok := cw.(format.Blocks)
	if !ok {
		return Verdict{}, fmt.Errorf("parity bit got %T: %w", cw, ErrCodewordType)
	}
	v := Verdict{Frames: len(blocks)}
	for _, block := range blocks {
		if !IsValid(block) {
			v.Rejected++
		}
	}
	return v, nil
}

func (s *ParityBitScheme) Decode(cw format.Codeword, size int) (format.Message, error) {
	blocks, ok := cw.(format.Blocks)
	if !ok {
		return nil, fmt.Errorf("parity bit got %T: %w", cw, ErrCodewordType)
	}
	data := make(format.Message, 0, blocks.Len())
	for _, block := range blocks {
		data = append(data, block.Data()...)
	}
	return truncate(data, size)
}
