package vaccine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"health-triage/internal/storage"
)

type Repository interface {
	Create(ctx context.Context, v *Vaccine) error
	Get(ctx context.Context, id uuid.UUID) (*Vaccine, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Vaccine, error)
	UpdateDoses(ctx context.Context, v *Vaccine) error
}

type sqlRepo struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) Repository {
	return &sqlRepo{db: db}
}

const selectColumns = `SELECT id, patient_id, name, total_doses_required, completed_doses,
	next_due_date, health_condition, priority, created_at, updated_at FROM patient_vaccines`

type scanner interface {
	Scan(dest ...any) error
}

func scanVaccine(row scanner) (*Vaccine, error) {
	var v Vaccine
	var next sql.NullTime
	if err := row.Scan(&v.ID, &v.PatientID, &v.Name, &v.TotalDoses, &v.CompletedDoses,
		&next, &v.HealthCondition, &v.Priority, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if next.Valid {
		t := next.Time
		v.NextDueDate = &t
	}
	return &v, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: storage.Timestamp(*t), Valid: true}
}

func (r *sqlRepo) Create(ctx context.Context, v *Vaccine) error {
	query := r.db.Rebind(`
		INSERT INTO patient_vaccines
			(id, patient_id, name, total_doses_required, completed_doses, next_due_date,
			 health_condition, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.PatientID, v.Name, v.TotalDoses, v.CompletedDoses, nullTime(v.NextDueDate),
		v.HealthCondition, string(v.Priority),
		storage.Timestamp(v.CreatedAt), storage.Timestamp(v.UpdatedAt))
	return err
}

func (r *sqlRepo) Get(ctx context.Context, id uuid.UUID) (*Vaccine, error) {
	v, err := scanVaccine(r.db.QueryRowContext(ctx, r.db.Rebind(selectColumns+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *sqlRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Vaccine, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind(selectColumns+` WHERE patient_id = ? ORDER BY created_at, name`), patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Vaccine{}
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// UpdateDoses only applies when the stored dose count is still the one the caller
// read, so two concurrent dose recordings cannot both succeed.
func (r *sqlRepo) UpdateDoses(ctx context.Context, v *Vaccine) error {
	query := r.db.Rebind(`
		UPDATE patient_vaccines
		SET completed_doses = ?, next_due_date = ?, updated_at = ?
		WHERE id = ? AND completed_doses = ?`)
	res, err := r.db.ExecContext(ctx, query,
		v.CompletedDoses, nullTime(v.NextDueDate), storage.Timestamp(v.UpdatedAt),
		v.ID, v.CompletedDoses-1)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
