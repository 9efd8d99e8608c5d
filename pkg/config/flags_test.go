package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsBadPort(t *testing.T) {
	SetTestFlag(t, "port", "0")
	assert.Error(t, Validate())
}

func TestValidateRejectsNonPowerOfTwoDisruptorSize(t *testing.T) {
	SetTestFlag(t, "disruptor_size", "100")
	assert.Error(t, Validate())
}

func TestValidateRejectsUnknownQueueImpl(t *testing.T) {
	SetTestFlag(t, "queue_impl", "bogus")
	assert.Error(t, Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Validate())
}
