package dedup

import (
	"testing"

	"github.com/orian/geo-loc-duplicates/internal/geo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTracerSeparatesEvictFromDrain(t *testing.T) {
	logger, hook := test.NewNullLogger()
	// The second point is within reach of the first, so it stays in the
	// window until the run ends and is drained.
	store := geo.NewStore([]geo.Point{{Lat: 0}, {Lat: 0.1}})

	_, err := Run(store, Config{Radius: 1, Tracer: NewLogTracer(logger)})
	require.NoError(t, err)

	var reasons []string
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "sweep", e.Data["component"])
		if e.Message == "removed from window" {
			reasons = append(reasons, e.Data["reason"].(string))
		}
		assert.NotEqual(t, "delete (self)", e.Message)
	}
	assert.Equal(t, []string{"evicted", "drained"}, reasons)

	var accepted int
	for _, e := range hook.AllEntries() {
		if e.Message == "considering duplicate" {
			accepted++
			assert.Equal(t, logrus.InfoLevel, e.Level)
		}
	}
	assert.Equal(t, 1, accepted)
}
