package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		table    Transitions
		from, to string
		want     bool
	}{
		{"appointment complete", Appointment, "scheduled", "completed", true},
		{"appointment cancel", Appointment, "scheduled", "cancelled", true},
		{"appointment no-show", Appointment, "scheduled", "no_show", true},
		{"completed is terminal", Appointment, "completed", "scheduled", false},
		{"cancelled is terminal", Appointment, "cancelled", "completed", false},
		{"leave approve", Leave, "pending", "approved", true},
		{"leave no unapprove", Leave, "approved", "pending", false},
		{"referral accept", Referral, "pending", "accepted", true},
		{"referral complete after accept", Referral, "accepted", "completed", true},
		{"declined referral stays declined", Referral, "declined", "completed", false},
		{"task start", Task, "pending", "in_progress", true},
		{"task complete directly", Task, "pending", "completed", true},
		{"task no reopen", Task, "completed", "pending", false},
		{"bill pay", Bill, "pending", "paid", true},
		{"paid bill refundable", Bill, "paid", "cancelled", true},
		{"cancelled bill stays cancelled", Bill, "cancelled", "paid", false},
		{"claim must enter processing", Claim, "submitted", "approved", false},
		{"claim process", Claim, "submitted", "processing", true},
		{"claim approve", Claim, "processing", "approved", true},
		{"rejected claim settles", Claim, "rejected", "completed", true},
		{"unknown status", Appointment, "bogus", "completed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.Can(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Appointment.Terminal("completed"))
	assert.True(t, Appointment.Terminal("no_show"))
	assert.False(t, Appointment.Terminal("scheduled"))
	assert.True(t, Claim.Terminal("completed"))
	assert.False(t, Claim.Terminal("rejected"))
	assert.True(t, Bill.Terminal("cancelled"))
}
