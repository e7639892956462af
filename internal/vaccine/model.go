package vaccine

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("vaccine not found")
	ErrInvalidVaccine = errors.New("invalid vaccine")
	ErrSeriesComplete = errors.New("all doses already completed")
	ErrConflict       = errors.New("vaccine was updated concurrently")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DoseInterval is the gap scheduled between consecutive doses.
const DoseInterval = 28 * 24 * time.Hour

// Vaccine is a multi-dose vaccination series for one patient.
type Vaccine struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	Name            string     `json:"name"`
	TotalDoses      int        `json:"total_doses"`
	CompletedDoses  int        `json:"completed_doses"`
	NextDueDate     *time.Time `json:"next_due_date,omitempty"`
	HealthCondition string     `json:"health_condition"`
	Priority        Priority   `json:"priority"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (v *Vaccine) Complete() bool {
	return v.CompletedDoses >= v.TotalDoses
}

// RecordDose marks the next dose as given at now and schedules the following one.
func (v *Vaccine) RecordDose(now time.Time) error {
	if v.Complete() {
		return ErrSeriesComplete
	}
	v.CompletedDoses++
	if v.Complete() {
		v.NextDueDate = nil
	} else {
		next := now.Add(DoseInterval)
		v.NextDueDate = &next
	}
	v.UpdatedAt = now
	return nil
}

type ReminderKind string

const (
	ReminderDueSoon ReminderKind = "due_soon"
	ReminderOverdue ReminderKind = "overdue"
)

// dueSoonDays is how far ahead a due dose starts producing reminders.
const dueSoonDays = 3

type Reminder struct {
	VaccineID uuid.UUID    `json:"vaccine_id"`
	Name      string       `json:"name"`
	Kind      ReminderKind `json:"kind"`
	// Days until due for due_soon, days past due for overdue.
	Days    int    `json:"days"`
	Message string `json:"message"`
}

// daysUntil rounds partial days up, so a dose due later today is 1 day away.
func daysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
