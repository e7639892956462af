package vaccine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScheduleRequest describes a new vaccination series.
type ScheduleRequest struct {
	Name            string    `json:"name"`
	TotalDoses      int       `json:"total_doses"`
	FirstDueDate    time.Time `json:"first_due_date"`
	HealthCondition string    `json:"health_condition"`
	Priority        Priority  `json:"priority,omitempty"`
}

func (r *ScheduleRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if r.TotalDoses < 1 {
		missing = append(missing, "total_doses")
	}
	if r.FirstDueDate.IsZero() {
		missing = append(missing, "first_due_date")
	}
	if strings.TrimSpace(r.HealthCondition) == "" {
		missing = append(missing, "health_condition")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing or invalid %s", ErrInvalidVaccine, strings.Join(missing, ", "))
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidVaccine, r.Priority)
	}
	return nil
}

type Service interface {
	Schedule(ctx context.Context, patientID uuid.UUID, req ScheduleRequest) (*Vaccine, error)
	List(ctx context.Context, patientID uuid.UUID) ([]Vaccine, error)
	MarkDoseComplete(ctx context.Context, vaccineID uuid.UUID) (*Vaccine, error)
	Reminders(ctx context.Context, patientID uuid.UUID) ([]Reminder, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return NewServiceWithClock(repo, time.Now)
}

func NewServiceWithClock(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

func (s *service) Schedule(ctx context.Context, patientID uuid.UUID, req ScheduleRequest) (*Vaccine, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.now().UTC()
	due := req.FirstDueDate.UTC()
	v := &Vaccine{
		ID:              uuid.New(),
		PatientID:       patientID,
		Name:            strings.TrimSpace(req.Name),
		TotalDoses:      req.TotalDoses,
		NextDueDate:     &due,
		HealthCondition: strings.TrimSpace(req.HealthCondition),
		Priority:        priority,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vaccine: %w", err)
	}
	return v, nil
}

func (s *service) List(ctx context.Context, patientID uuid.UUID) ([]Vaccine, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *service) MarkDoseComplete(ctx context.Context, vaccineID uuid.UUID) (*Vaccine, error) {
	v, err := s.repo.Get(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	if err := v.RecordDose(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDoses(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Reminders(ctx context.Context, patientID uuid.UUID) ([]Reminder, error) {
	vaccines, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return Reminders(vaccines, s.now()), nil
}
