package format

import "strings"

// Codeword is an encoded message in transmission order. The channel only
// needs Each, so it stays independent of the coding scheme.
type Codeword interface {
	Clone() Codeword
	// Len is the number of transmitted bits.
	Len() int
	// Frames is the number of independently checked units.
	Frames() int
	// Each visits every bit in transmission order.
	Each(fn func(b *Bit))
	String() string
}

// Block is one parity-bit frame: data bits followed by one parity bit.
type Block []Bit

func (b Block) Data() []Bit {
	if len(b) == 0 {
		return nil
	}
	return b[:len(b)-1]
}

func (b Block) ParityBit() Bit {
	return b[len(b)-1]
}

func (b Block) String() string {
	return bitString(b)
}

// Blocks is a message encoded with the parity-bit scheme.
type Blocks []Block

func (bs Blocks) Clone() Codeword {
	out := make(Blocks, len(bs))
	for i, b := range bs {
		out[i] = append(Block(nil), b...)
	}
	return out
}

func (bs Blocks) Len() int {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	return n
}

func (bs Blocks) Frames() int {
	return len(bs)
}

func (bs Blocks) Each(fn func(b *Bit)) {
	for _, block := range bs {
		for i := range block {
			fn(&block[i])
		}
	}
}

func (bs Blocks) String() string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// Matrix is a dim x dim parity-matrix frame. The last row holds column
// parities and the last column holds row parities.
type Matrix [][]Bit

// NewMatrix returns an all-zero dim x dim matrix.
func NewMatrix(dim int) Matrix {
	m := make(Matrix, dim)
	for r := range m {
		m[r] = make([]Bit, dim)
	}
	return m
}

func (m Matrix) Dim() int {
	return len(m)
}

// Square reports whether every row has Dim() entries.
func (m Matrix) Square() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for r, row := range m {
		out[r] = append([]Bit(nil), row...)
	}
	return out
}

func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(other[r]) || Distance(m[r], other[r]) != 0 {
			return false
		}
	}
	return true
}

func (m Matrix) String() string {
	rows := make([]string, len(m))
	for r, row := range m {
		rows[r] = bitString(row)
	}
	return strings.Join(rows, "/")
}

// Matrices is a message encoded with the parity-matrix scheme.
type Matrices []Matrix

func (ms Matrices) Clone() Codeword {
	out := make(Matrices, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}

func (ms Matrices) Len() int {
	n := 0
	for _, m := range ms {
		for _, row := range m {
			n += len(row)
		}
	}
	return n
}

func (ms Matrices) Frames() int {
	return len(ms)
}

func (ms Matrices) Each(fn func(b *Bit)) {
	for _, m := range ms {
		for _, row := range m {
			for c := range row {
				fn(&row[c])
			}
		}
	}
}

func (ms Matrices) String() string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
