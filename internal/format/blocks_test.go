package format

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	msg, err := Generate(500, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Len(t, msg, 500)
	for i, b := range msg {
		require.Truef(t, b == Zero || b == One, "bit %d is %d", i, b)
	}
	ones := Weight(msg)
	assert.Greater(t, ones, 150)
	assert.Less(t, ones, 350)

	again, err := Generate(500, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, msg, again)
}

func TestGenerateRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := Generate(size, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage("10110")
	require.NoError(t, err)
	assert.Equal(t, Message{One, Zero, One, One, Zero}, msg)
	assert.Equal(t, "10110", msg.String())

	_, err = ParseMessage("10x")
	assert.Error(t, err)
}

func TestParityAndDistance(t *testing.T) {
	assert.Equal(t, Zero, Parity(nil))
	assert.Equal(t, One, Parity([]Bit{1, 1, 1}))
	assert.Equal(t, Zero, Parity([]Bit{1, 0, 1, 0}))

	assert.Equal(t, 0, Distance([]Bit{1, 0}, []Bit{1, 0}))
	assert.Equal(t, 2, Distance([]Bit{1, 0, 1}, []Bit{0, 0, 0}))
	assert.Equal(t, 2, Distance([]Bit{1}, []Bit{1, 0, 0}))
}

func TestBlocksCloneIsDeep(t *testing.T) {
	orig := Blocks{{1, 0, 1}, {0, 1}}
	cp := orig.Clone().(Blocks)
	cp[0][0] = Flip(cp[0][0])

	assert.Equal(t, One, orig[0][0])
	assert.Equal(t, 5, orig.Len())
	assert.Equal(t, 2, orig.Frames())
	assert.Equal(t, "101 01", orig.String())
}

func TestMatricesEachVisitsInOrder(t *testing.T) {
	m := NewMatrix(2)
	m[0][1] = One
	m[1][0] = One
	ms := Matrices{m}

	var seen []Bit
	ms.Each(func(b *Bit) { seen = append(seen, *b) })
	assert.Equal(t, []Bit{0, 1, 1, 0}, seen)

	ms.Each(func(b *Bit) { *b = Flip(*b) })
	assert.Equal(t, "10/01", ms[0].String())
	assert.Equal(t, 4, ms.Len())
}

func TestMatrixCloneAndEqual(t *testing.T) {
	m := NewMatrix(3)
	cp := m.Clone()
	require.True(t, m.Equal(cp))
	require.True(t, cp.Square())

	cp[2][2] = One
	assert.False(t, m.Equal(cp))
	assert.Equal(t, Zero, m[2][2])

	ragged := Matrix{{0, 0}, {0}}
	assert.False(t, ragged.Square())
}
