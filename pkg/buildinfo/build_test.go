package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownVersionDefaultedWhenEmpty(t *testing.T) {
	assert.Equal(t, "unknown", Version)
	assert.Equal(t, "unknown", Commit)
	assert.Equal(t, "unknown", BuildTime)
}

func TestStartTimeIsSetOnInit(t *testing.T) {
	assert.False(t, StartTime.IsZero())
}
