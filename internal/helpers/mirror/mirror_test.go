package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string
}

func TestFresh(t *testing.T) {
	v := Fresh[*sample]()
	s, ok := v.(*sample)
	if assert.True(t, ok, "expected *sample, got %T", v) {
		assert.Equal(t, sample{}, *s)
	}

	i, ok := Fresh[int]().(*int)
	if assert.True(t, ok) {
		assert.Equal(t, 0, *i)
	}
}

func TestIsStructPointer(t *testing.T) {
	var nilPtr *sample
	n := 3

	assert.NoError(t, IsStructPointer(&sample{}))
	assert.ErrorIs(t, IsStructPointer(sample{}), ErrNotPointer)
	assert.ErrorIs(t, IsStructPointer(nilPtr), ErrNilPointer)
	assert.ErrorIs(t, IsStructPointer(&n), ErrInvalidPointerKind)
}
