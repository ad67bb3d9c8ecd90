//go:build !darwin && !windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Unsupported(t *testing.T) {
	p, err := New(nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
