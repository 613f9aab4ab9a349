package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tabib/tabib/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, doctor_id, patient_id, date, start_time, status, type, notes, created_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, date, start_time, status, type, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		a.ID, a.DoctorID, a.PatientID, a.Date, a.StartTime, a.Status, a.Type, a.Notes).
		Scan(&a.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrSlotTaken
		case "23503":
			return ErrDoctorNotFound
		}
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id).
		Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Date, &a.StartTime, &a.Status, &a.Type, &a.Notes, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE appointment SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const doctorViewSelect = `
	SELECT a.id, a.doctor_id, a.patient_id, a.date, a.start_time, a.status, a.type, a.notes, a.created_at,
	       u.first_name, u.last_name, u.phone, u.photo_url
	FROM appointment a
	JOIN users u ON u.id = a.patient_id`

func scanDoctorView(row pgx.Row) (*DoctorView, error) {
	var v DoctorView
	err := row.Scan(&v.ID, &v.DoctorID, &v.PatientID, &v.Date, &v.StartTime, &v.Status, &v.Type, &v.Notes, &v.CreatedAt,
		&v.PatientFirstName, &v.PatientLastName, &v.PatientPhone, &v.PatientPhotoURL)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoPG) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*DoctorView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, doctorViewSelect+`
		WHERE a.doctor_id = $1
		ORDER BY a.date DESC, a.start_time DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorView
	for rows.Next() {
		v, err := scanDoctorView(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.doctor_id, a.patient_id, a.date, a.start_time, a.status, a.type, a.notes, a.created_at,
		       u.first_name, u.last_name, d.specialty, d.consultation_fee, u.photo_url
		FROM appointment a
		JOIN doctor_profile d ON d.id = a.doctor_id
		JOIN users u ON u.id = d.user_id
		WHERE a.patient_id = $1
		ORDER BY a.date DESC, a.start_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientView
	for rows.Next() {
		var v PatientView
		if err := rows.Scan(&v.ID, &v.DoctorID, &v.PatientID, &v.Date, &v.StartTime, &v.Status, &v.Type, &v.Notes, &v.CreatedAt,
			&v.DoctorFirstName, &v.DoctorLastName, &v.Specialty, &v.ConsultationFee, &v.DoctorPhotoURL); err != nil {
			return nil, 0, err
		}
		items = append(items, &v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) PendingForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*DoctorView, error) {
	rows, err := r.conn(ctx).Query(ctx, doctorViewSelect+`
		WHERE a.doctor_id = $1 AND a.status = 'pending'
		ORDER BY a.date, a.start_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*DoctorView
	for rows.Next() {
		v, err := scanDoctorView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
