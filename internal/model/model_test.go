package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())

	got, err = ParseTimeOfDay("23:59:00")
	require.NoError(t, err)
	assert.Equal(t, "23:59", got.String())

	for _, bad := range []string{"9:30", "25:00", "09-30", "morning", ""} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var v TimeOfDay
	require.NoError(t, v.Scan(time.Date(2026, 3, 1, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, "14:45", v.String())

	require.NoError(t, v.Scan("08:15:00"))
	assert.Equal(t, "08:15", v.String())

	require.NoError(t, v.Scan([]byte("19:05")))
	assert.Equal(t, "19:05", v.String())

	assert.Error(t, v.Scan(42))
}

func TestTimeOfDayJSON(t *testing.T) {
	var iv Interval
	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:00","end":"12:30"}`), &iv))
	assert.Equal(t, TimeOfDay(9*60), iv.Start)

	out, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00","end":"12:30"}`, string(out))
}

func TestLeaveCovers(t *testing.T) {
	leave := &LeaveRequest{
		StartDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, leave.Covers(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)))
	assert.True(t, leave.Covers(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.False(t, leave.Covers(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, leave.Covers(time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)))
}

func TestBillRecomputeTotal(t *testing.T) {
	bill := &Bill{Amount: 100, Tax: 18, Discount: 25}
	bill.RecomputeTotal()
	assert.Equal(t, 93.0, bill.TotalAmount)
}

func TestBillEffectiveStatus(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	bill := &Bill{Status: BillStatusPending, DueDate: due}

	assert.Equal(t, BillStatusPending, bill.EffectiveStatus(due))
	assert.Equal(t, BillStatusOverdue, bill.EffectiveStatus(due.AddDate(0, 0, 1)))

	bill.Status = BillStatusPaid
	assert.Equal(t, BillStatusPaid, bill.EffectiveStatus(due.AddDate(0, 0, 1)), "only pending bills go overdue")
}

func TestPrescriptionActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &Prescription{IsActive: true}
	assert.True(t, p.Active(now), "no expiry means active")

	expiry := now.AddDate(0, 0, -1)
	p.ExpiryDate = &expiry
	assert.False(t, p.Active(now))

	sameDay := now.Add(-2 * time.Hour)
	p.ExpiryDate = &sameDay
	assert.True(t, p.Active(now), "expiry day itself is still usable")

	p.IsActive = false
	assert.False(t, p.Active(now))
}
