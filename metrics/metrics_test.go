package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOperation("create child", time.Now(), nil)
	m.ObserveOperation("create child", time.Now(), errors.New("boom"))
	m.ObserveOperation("create child", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create child", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create child", "error")))
}

func TestSetSizesAndImport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetSizes(5, 2, 1)
	m.ObserveImport(4, 2, 1)
	m.IncrementPersistFailure()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.People))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UndoDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedoDepth))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ImportedRecords))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkippedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrubbedReferences))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
