package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	t.Run("default size is 6x7 and empty", func(t *testing.T) {
		b := NewDefaultBoard()

		assert.Equal(t, Rows, b.Rows())
		assert.Equal(t, Columns, b.Columns())
		for r := range b {
			for c := range b[r] {
				assert.Equal(t, Empty, b[r][c])
			}
		}
	})

	t.Run("rejects non-positive dimensions", func(t *testing.T) {
		_, err := NewBoard(0, 7)
		assert.ErrorIs(t, err, ErrInvalidBoardSize)

		_, err = NewBoard(6, -1)
		assert.ErrorIs(t, err, ErrInvalidBoardSize)
	})
}

func TestBoard_DropDisk(t *testing.T) {
	t.Run("every column fills bottom-up", func(t *testing.T) {
		b := NewDefaultBoard()

		for c := 0; c < Columns; c++ {
			for want := Rows - 1; want >= 0; want-- {
				row, err := b.DropDisk(c, Player1)

				require.NoError(t, err)
				assert.Equal(t, want, row, "column %d", c)
			}
		}
	})

	t.Run("full column is rejected without mutation", func(t *testing.T) {
		// Given: column 2 filled with alternating disks
		b := NewDefaultBoard()
		p := Player1
		for i := 0; i < Rows; i++ {
			_, err := b.DropDisk(2, p)
			require.NoError(t, err)
			p = p.Other()
		}
		before := b.Copy()

		// When: dropping once more
		row, err := b.DropDisk(2, Player1)

		// Then: nothing changed
		assert.ErrorIs(t, err, ErrColumnFull)
		assert.Equal(t, -1, row)
		assert.Equal(t, before, b)
		assert.True(t, b.IsColumnFull(2))
		assert.NotContains(t, b.ValidMoves(), 2)
	})

	t.Run("out of range column", func(t *testing.T) {
		b := NewDefaultBoard()

		_, err := b.DropDisk(Columns, Player1)
		assert.ErrorIs(t, err, ErrColumnOutOfRange)

		_, err = b.DropDisk(-1, Player1)
		assert.ErrorIs(t, err, ErrColumnOutOfRange)
	})
}

func TestBoard_IsFullAndClear(t *testing.T) {
	b, err := NewBoard(2, 2)
	require.NoError(t, err)
	assert.False(t, b.IsFull())

	for c := 0; c < 2; c++ {
		for i := 0; i < 2; i++ {
			_, err := b.DropDisk(c, Player2)
			require.NoError(t, err)
		}
	}
	assert.True(t, b.IsFull())
	assert.Empty(t, b.ValidMoves())

	b.Clear()
	assert.False(t, b.IsFull())
	assert.Equal(t, [][]int{{0, 0}, {0, 0}}, b.Ints())
}

func TestBoard_Copy(t *testing.T) {
	b := NewDefaultBoard()
	_, _ = b.DropDisk(0, Player1)

	cp := b.Copy()
	_, _ = cp.DropDisk(0, Player2)

	assert.Equal(t, Empty, b[Rows-2][0])
	assert.Equal(t, Player2, cp[Rows-2][0])
}
