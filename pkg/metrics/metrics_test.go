package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAdmission(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.RecordAdmission("COMMITTED")
	m.RecordAdmission("COMMITTED")
	m.RecordAdmission("SLOT_CONFLICT")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.admissionsTotal.WithLabelValues("test", "COMMITTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.admissionsTotal.WithLabelValues("test", "SLOT_CONFLICT")))
}

func TestObserveDBQuery_CountsErrorsExceptNoRows(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveDBQuery("select", time.Millisecond, nil)
	m.ObserveDBQuery("select", time.Millisecond, sql.ErrNoRows)
	m.ObserveDBQuery("select", time.Millisecond, sql.ErrConnDone)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("test", "select")))
}

func TestSetDBPoolStats(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.SetDBPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConns.WithLabelValues("test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbInUseConns.WithLabelValues("test")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbIdleConns.WithLabelValues("test")))
}
