// Package authz expresses authorization as a capability check over the closed
// role set. Role checks run before any other validation and fail closed:
// unknown roles and unknown actions grant nothing. Resource ownership (acting
// on another doctor's or patient's rows) is enforced by the owning service on
// top of the role capability.
package authz

import (
	"github.com/careloop/clinic-api/internal/model"
)

type Action string

const (
	ActionBookAppointment    Action = "appointment:book"
	ActionCancelAppointment  Action = "appointment:cancel"
	ActionResolveAppointment Action = "appointment:resolve"
	ActionManageSchedule     Action = "schedule:manage"
	ActionRequestLeave       Action = "leave:request"
	ActionApproveLeave       Action = "leave:approve"
	ActionWriteRecord        Action = "record:write"
	ActionReadOwnRecords     Action = "record:read_own"
	ActionPrescribe          Action = "prescription:write"
	ActionGenerateBill       Action = "bill:generate"
	ActionPayBill            Action = "bill:pay"
	ActionManageInsurance    Action = "insurance:manage"
	ActionProcessClaim       Action = "claim:process"
	ActionRefer              Action = "referral:write"
	ActionManageTasks        Action = "task:manage"
	ActionWorkTasks          Action = "task:work"
	ActionAssignNurse        Action = "careteam:assign"
	ActionActForDoctor       Action = "careteam:act"
	ActionViewInventory      Action = "inventory:view"
)

var capabilities = map[model.Role]map[Action]bool{
	model.RolePatient: {
		ActionBookAppointment:   true,
		ActionCancelAppointment: true,
		ActionReadOwnRecords:    true,
		ActionPayBill:           true,
		ActionManageInsurance:   true,
	},
	model.RoleDoctor: {
		ActionCancelAppointment:  true,
		ActionResolveAppointment: true,
		ActionManageSchedule:     true,
		ActionRequestLeave:       true,
		ActionWriteRecord:        true,
		ActionPrescribe:          true,
		ActionGenerateBill:       true,
		ActionRefer:              true,
		ActionManageTasks:        true,
		ActionAssignNurse:        true,
		ActionViewInventory:      true,
	},
	model.RoleNurse: {
		ActionCancelAppointment:  true,
		ActionResolveAppointment: true,
		ActionWorkTasks:          true,
		ActionActForDoctor:       true,
	},
	model.RoleAdmin: {
		ActionApproveLeave:    true,
		ActionGenerateBill:    true,
		ActionManageInsurance: true,
		ActionViewInventory:   true,
	},
	model.RolePharmacist: {
		ActionViewInventory: true,
	},
	model.RoleInsurance: {
		ActionProcessClaim: true,
	},
	model.RoleLabTech: {
		ActionWorkTasks: true,
	},
}

// Can reports whether the principal's role grants the action.
func Can(p *model.Principal, action Action) bool {
	if p == nil || !p.Role.Valid() {
		return false
	}
	return capabilities[p.Role][action]
}
