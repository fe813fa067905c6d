package encoding

import (
	"fmt"
	"math"

	"github.com/harlequix/paritysim/internal/format"
)

// MatrixDim returns sqrt(d) for the parity-matrix scheme. d must be a perfect
// square of at least 4 so that every matrix keeps one data row and column.
func MatrixDim(d int) (int, error) {
	if d < 4 {
		return 0, fmt.Errorf("parity matrix d=%d, need d >= 4: %w", d, ErrInvalidBlockSize)
	}
	dim := int(math.Sqrt(float64(d)))
	for dim*dim > d {
		dim--
	}
	for (dim+1)*(dim+1) <= d {
		dim++
	}
	if dim*dim != d {
		return 0, fmt.Errorf("parity matrix d=%d: %w", d, ErrNotPerfectSquare)
	}
	return dim, nil
}

// EncodeParityMatrix lays msg out in (dim-1) x (dim-1) data regions, zero
// padding the tail, and adds a parity column and a parity row to each.
func EncodeParityMatrix(msg format.Message, d int) (format.Matrices, error) {
	dim, err := MatrixDim(d)
	if err != nil {
		return nil, err
	}
	width := dim - 1
	area := width * width
	padded := len(msg)
	if rem := padded % area; rem != 0 {
		padded += area - rem
	}

	out := make(format.Matrices, 0, padded/area)
	for off := 0; off < padded; off += area {
		m := format.NewMatrix(dim)
		for r := 0; r < width; r++ {
			for c := 0; c < width; c++ {
				if i := off + r*width + c; i < len(msg) {
					m[r][c] = msg[i]
				}
			}
			m[r][width] = format.Parity(m[r][:width])
		}
		for c := 0; c < dim; c++ {
			m[width][c] = columnParity(m, c)
		}
		out = append(out, m)
	}
	return out, nil
}

// columnParity is the parity of column c over the data rows.
func columnParity(m format.Matrix, c int) format.Bit {
	var p format.Bit
	for r := 0; r < len(m)-1; r++ {
		p ^= m[r][c] & 1
	}
	return p
}

// ValidateAndCorrect checks m and flips the bit at the single (row, column)
// intersection where both parities fail. It returns false when the failures
// do not point at exactly one bit.
func ValidateAndCorrect(m format.Matrix) bool {
	ok, _ := checkMatrix(m)
	return ok
}

func checkMatrix(m format.Matrix) (ok bool, corrected bool) {
	dim := m.Dim()
	if dim < 2 || !m.Square() {
		return false, false
	}
	last := dim - 1

	var rows, cols []int
	// The parity row is scanned too: its own parity against the corner cell
	// localizes flips in the parity row.
	for r := 0; r < dim; r++ {
		if format.Parity(m[r][:last]) == m[r][last] {
			continue
		}
		for c := 0; c < dim; c++ {
			if columnParity(m, c) != m[last][c] {
				rows = append(rows, r)
				cols = append(cols, c)
			}
		}
	}

	switch len(rows) {
	case 0:
		return true, false
	case 1:
		r, c := rows[0], cols[0]
		m[r][c] = format.Flip(m[r][c])
		return true, true
	}
	return false, false
}

type ParityMatrixScheme struct {
	d   int
	dim int
}

func NewParityMatrixScheme(d int) (*ParityMatrixScheme, error) {
	dim, err := MatrixDim(d)
	if err != nil {
		return nil, err
	}
	return &ParityMatrixScheme{d: d, dim: dim}, nil
}

func (s *ParityMatrixScheme) Method() Method {
	return ParityMatrix
}

func (s *ParityMatrixScheme) BlockSize() int {
	return s.d
}

func (s *ParityMatrixScheme) Dim() int {
	return s.dim
}

func (s *ParityMatrixScheme) Encode(msg format.Message) (format.Codeword, error) {
	return EncodeParityMatrix(msg, s.d)
}

func (s *ParityMatrixScheme) Validate(cw format.Codeword) (Verdict, error) {
	matrices, ok := cw.(format.Matrices)
	if !ok {
		return Verdict{}, fmt.Errorf("parity matrix got %T: %w", cw, ErrCodewordType)
	}
	v := Verdict{Frames: len(matrices)}
	for _, m := range matrices {
		valid, corrected := checkMatrix(m)
		if !valid {
			v.Rejected++
		}
		if corrected {
			v.Corrected++
		}
	}
	return v, nil
}

func (s *ParityMatrixScheme) Decode(cw format.Codeword, size int) (format.Message, error) {
	matrices, ok := cw.(format.Matrices)
	if !ok {
		return nil, fmt.Errorf("parity matrix got %T: %w", cw, ErrCodewordType)
	}
	width := s.dim - 1
	data := make(format.Message, 0, len(matrices)*width*width)
	for i, m := range matrices {
		if m.Dim() != s.dim || !m.Square() {
			return nil, fmt.Errorf("matrix %d is not %dx%d: %w", i, s.dim, s.dim, ErrCodewordType)
		}
		for r := 0; r < width; r++ {
			data = append(data, m[r][:width]...)
		}
	}
	return truncate(data, size)
}
