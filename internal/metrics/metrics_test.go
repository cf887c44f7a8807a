package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(ingestedRows.WithLabelValues("persisted"))
	IncIngestedRow("persisted")
	assert.Equal(t, before+1, testutil.ToFloat64(ingestedRows.WithLabelValues("persisted")))

	beforeWindows := testutil.ToFloat64(windowsCreated)
	AddWindowsCreated(3)
	AddWindowsCreated(0)
	AddWindowsCreated(-1)
	assert.Equal(t, beforeWindows+3, testutil.ToFloat64(windowsCreated))

	beforeHit := testutil.ToFloat64(openQueries.WithLabelValues("hit"))
	IncOpenQuery("hit")
	assert.Equal(t, beforeHit+1, testutil.ToFloat64(openQueries.WithLabelValues("hit")))
}
