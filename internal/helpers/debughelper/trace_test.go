package debughelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := Stack()
	assert.Contains(t, s, "goroutine")
	assert.Contains(t, s, "TestStack")
}
