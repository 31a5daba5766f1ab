package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "demo-key...", MaskKey("demo-key-123"))
	assert.Equal(t, "premium-...", MaskKey("premium-key-456"))
	assert.Equal(t, "abc...", MaskKey("abc"))
	assert.Equal(t, "...", MaskKey(""))
}
