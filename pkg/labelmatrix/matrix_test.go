package labelmatrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

func TestNewZeroInitialized(t *testing.T) {
	t.Parallel()

	m := labelmatrix.New([]string{"a", "b"}, []string{"x", "y", "z"}, "rows", "cols")

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())

	for i := range m.Rows() {
		for j := range m.Cols() {
			assert.InDelta(t, 0.0, m.At(i, j), 0)
		}
	}
}

func TestIndexOfRowAndCol(t *testing.T) {
	t.Parallel()

	m := labelmatrix.New([]string{"a", "b", "c"}, []string{"t1", "t2"}, "", "")

	i, ok := m.IndexOfRow("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	j, ok := m.IndexOfCol("t2")
	require.True(t, ok)
	assert.Equal(t, 1, j)

	_, ok = m.IndexOfRow("missing")
	assert.False(t, ok)
}

func TestDuplicateLabelLaterIndexWins(t *testing.T) {
	t.Parallel()

	m := labelmatrix.New([]string{"a", "a", "b"}, []string{"x"}, "", "")

	i, ok := m.IndexOfRow("a")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestSetAddAndColumn(t *testing.T) {
	t.Parallel()

	m := labelmatrix.New([]string{"a", "b"}, []string{"x", "y"}, "", "")

	m.Set(0, 0, 1.5)
	m.Add(0, 0, 2.5)
	m.Set(1, 0, 4.0)

	assert.InDelta(t, 4.0, m.At(0, 0), 1e-12)
	assert.Equal(t, []float64{4.0, 4.0}, m.Column(0))
}

func TestMapInPlace(t *testing.T) {
	t.Parallel()

	m := labelmatrix.New([]string{"a"}, []string{"x", "y"}, "", "")
	m.Set(0, 0, 2)
	m.Set(0, 1, 3)

	m.MapInPlace(func(v float64) float64 { return v * 2 })

	assert.InDelta(t, 4.0, m.At(0, 0), 1e-12)
	assert.InDelta(t, 6.0, m.At(0, 1), 1e-12)
}
