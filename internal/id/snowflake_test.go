package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsIncreasing(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		assert.Greater(t, next, prev)
		prev = next
	}
}
