package cleanup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_NewestFirst(t *testing.T) {
	var order []int
	Register(func() error { order = append(order, 1); return nil })
	Register(func() error { order = append(order, 2); return errors.New("ignored") })
	Register(func() error { order = append(order, 3); panic("also ignored") })

	Run()
	assert.Equal(t, []int{3, 2, 1}, order)

	// registry is drained
	Run()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestUnregister(t *testing.T) {
	called := false
	id := Register(func() error { called = true; return nil })
	Unregister(id)

	Run()
	assert.False(t, called)
}

func TestExit(t *testing.T) {
	orig := exit
	defer func() { exit = orig }()

	status := -1
	exit = func(code int) { status = code }

	ran := false
	Register(func() error { ran = true; return nil })

	Exit(7)
	assert.True(t, ran)
	assert.Equal(t, 7, status)
}
