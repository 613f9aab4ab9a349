package review

import (
	"context"

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

func (r *repoPG) Create(ctx context.Context, rv *Review) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO review (id, doctor_id, patient_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		rv.ID, rv.DoctorID, rv.PatientID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Review, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.id, r.doctor_id, r.patient_id, r.rating, r.comment, r.created_at,
		       u.first_name, u.last_name
		FROM review r
		JOIN users u ON u.id = r.patient_id
		WHERE r.doctor_id = $1
		ORDER BY r.created_at DESC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.DoctorID, &rv.PatientID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.PatientFirstName, &rv.PatientLastName); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}
