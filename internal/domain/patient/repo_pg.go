package patient

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

func (r *repoPG) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, first_name, last_name, phone, photo_url, created_at
		FROM users
		WHERE id = $1 AND role = 'patient'`, userID).
		Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.PhotoURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const visitSelect = `
	SELECT a.id, a.date, a.start_time, a.status, a.type,
	       u.first_name, u.last_name, d.specialty
	FROM appointment a
	JOIN doctor_profile d ON d.id = a.doctor_id
	JOIN users u ON u.id = d.user_id`

func (r *repoPG) scanVisits(rows pgx.Rows) ([]*Visit, error) {
	defer rows.Close()
	var visits []*Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.Date, &v.StartTime, &v.Status, &v.Type,
			&v.DoctorFirstName, &v.DoctorLastName, &v.Specialty); err != nil {
			return nil, err
		}
		visits = append(visits, &v)
	}
	return visits, rows.Err()
}

func (r *repoPG) Upcoming(ctx context.Context, userID uuid.UUID, date string) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx, visitSelect+`
		WHERE a.patient_id = $1 AND a.date >= $2 AND a.status <> 'cancelled'
		ORDER BY a.date, a.start_time`, userID, date)
	if err != nil {
		return nil, err
	}
	return r.scanVisits(rows)
}

func (r *repoPG) Past(ctx context.Context, userID uuid.UUID, date string, limit int) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx, visitSelect+`
		WHERE a.patient_id = $1 AND a.date < $2
		ORDER BY a.date DESC, a.start_time DESC
		LIMIT $3`, userID, date, limit)
	if err != nil {
		return nil, err
	}
	return r.scanVisits(rows)
}
