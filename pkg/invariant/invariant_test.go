package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaiseIncrementsMetric(t *testing.T) {
	invariantsMetric.Reset() // Reset the metric to ensure a clean state for the test.
	Raise("queue", "test", "This is a test invariant violation")
	got := MetricValue("queue" /*module*/, "test" /*kind*/)
	assert.Equal(t, 1, got)
}
