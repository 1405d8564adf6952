package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careloop/clinic-api/internal/model"
)

func principal(role model.Role) *model.Principal {
	return &model.Principal{Role: role}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name   string
		role   model.Role
		action Action
		want   bool
	}{
		{"patient books", model.RolePatient, ActionBookAppointment, true},
		{"patient cannot prescribe", model.RolePatient, ActionPrescribe, false},
		{"patient cannot approve leave", model.RolePatient, ActionApproveLeave, false},
		{"doctor manages schedule", model.RoleDoctor, ActionManageSchedule, true},
		{"doctor cannot book", model.RoleDoctor, ActionBookAppointment, false},
		{"doctor cannot process claims", model.RoleDoctor, ActionProcessClaim, false},
		{"nurse acts for doctor", model.RoleNurse, ActionActForDoctor, true},
		{"nurse cannot prescribe", model.RoleNurse, ActionPrescribe, false},
		{"nurse works tasks", model.RoleNurse, ActionWorkTasks, true},
		{"admin approves leave", model.RoleAdmin, ActionApproveLeave, true},
		{"admin generates bills", model.RoleAdmin, ActionGenerateBill, true},
		{"insurer processes claims", model.RoleInsurance, ActionProcessClaim, true},
		{"insurer cannot pay bills", model.RoleInsurance, ActionPayBill, false},
		{"lab tech works tasks", model.RoleLabTech, ActionWorkTasks, true},
		{"pharmacist views inventory", model.RolePharmacist, ActionViewInventory, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(principal(tt.role), tt.action))
		})
	}
}

func TestCanFailsClosed(t *testing.T) {
	assert.False(t, Can(nil, ActionBookAppointment))
	assert.False(t, Can(principal("superuser"), ActionBookAppointment))
	assert.False(t, Can(principal(model.RolePatient), Action("made:up")))
}
