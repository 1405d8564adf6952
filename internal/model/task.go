package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is assigned by a doctor to a nurse or lab technician.
type Task struct {
	Base
	DoctorID    uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	AssignedTo  uuid.UUID    `db:"assigned_to" json:"assigned_to"`
	PatientID   *uuid.UUID   `db:"patient_id" json:"patient_id,omitempty"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	DueDate     time.Time    `db:"due_date" json:"due_date"`
	Status      TaskStatus   `db:"status" json:"status"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}

type CreateTaskRequest struct {
	AssignedTo  uuid.UUID    `json:"assigned_to" binding:"required"`
	PatientID   *uuid.UUID   `json:"patient_id"`
	Title       string       `json:"title" binding:"required,max=100"`
	Description string       `json:"description" binding:"required"`
	Priority    TaskPriority `json:"priority" binding:"required"`
	DueDate     time.Time    `json:"due_date" binding:"required"`
}

type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status" binding:"required"`
}
