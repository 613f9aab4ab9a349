package doctor

import (
	"context"
	"errors"
	"fmt"

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

const profileCols = `id, user_id, specialty, license, address, city, bio, consultation_fee`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Specialty, &p.License, &p.Address, &p.City, &p.Bio, &p.ConsultationFee)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) CreateForUser(ctx context.Context, userID uuid.UUID, specialty, license string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_profile (id, user_id, specialty, license)
		VALUES ($1,$2,$3,$4)`,
		uuid.New(), userID, specialty, license)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx, `SELECT `+profileCols+` FROM doctor_profile WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx, `SELECT `+profileCols+` FROM doctor_profile WHERE user_id = $1`, userID))
}

func (r *repoPG) ProfileIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `SELECT id FROM doctor_profile WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return id, err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctor_profile WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor_profile
		SET specialty=$2, address=$3, city=$4, bio=$5, consultation_fee=$6
		WHERE id = $1`,
		p.ID, p.Specialty, p.Address, p.City, p.Bio, p.ConsultationFee)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const cardSelect = `
	SELECT d.id, d.user_id, u.first_name, u.last_name, d.specialty,
	       d.address, d.city, d.bio, d.consultation_fee, u.photo_url,
	       COALESCE(AVG(r.rating), 0) AS rating,
	       COUNT(r.id) AS review_count
	FROM doctor_profile d
	JOIN users u ON u.id = d.user_id
	LEFT JOIN review r ON r.doctor_id = d.id`

const cardGroup = ` GROUP BY d.id, u.id`

func scanCard(row pgx.Row) (*Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Specialty,
		&c.Address, &c.City, &c.Bio, &c.ConsultationFee, &c.PhotoURL,
		&c.Rating, &c.ReviewCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Search(ctx context.Context, search, city string) ([]*Card, error) {
	query := cardSelect + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR d.specialty ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}
	if city != "" {
		query += fmt.Sprintf(` AND d.city ILIKE $%d`, idx)
		args = append(args, "%"+city+"%")
		idx++
	}
	query += cardGroup + ` ORDER BY u.last_name, u.first_name`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *repoPG) CardByID(ctx context.Context, id uuid.UUID) (*Card, error) {
	return scanCard(r.conn(ctx).QueryRow(ctx, cardSelect+` WHERE d.id = $1`+cardGroup, id))
}

const visitSelect = `
	SELECT a.id, a.date, a.start_time, a.status, a.type,
	       u.first_name, u.last_name, u.photo_url
	FROM appointment a
	JOIN users u ON u.id = a.patient_id`

func (r *repoPG) scanVisits(rows pgx.Rows) ([]*VisitSummary, error) {
	defer rows.Close()
	var visits []*VisitSummary
	for rows.Next() {
		var v VisitSummary
		if err := rows.Scan(&v.ID, &v.Date, &v.StartTime, &v.Status, &v.Type,
			&v.PatientFirstName, &v.PatientLastName, &v.PatientPhotoURL); err != nil {
			return nil, err
		}
		visits = append(visits, &v)
	}
	return visits, rows.Err()
}

func (r *repoPG) DayAppointments(ctx context.Context, profileID uuid.UUID, date string) ([]*VisitSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, visitSelect+`
		WHERE a.doctor_id = $1 AND a.date = $2 AND a.status <> 'cancelled'
		ORDER BY a.start_time`, profileID, date)
	if err != nil {
		return nil, err
	}
	return r.scanVisits(rows)
}

func (r *repoPG) UpcomingAppointments(ctx context.Context, profileID uuid.UUID, after string, limit int) ([]*VisitSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, visitSelect+`
		WHERE a.doctor_id = $1 AND a.date > $2 AND a.status <> 'cancelled'
		ORDER BY a.date, a.start_time
		LIMIT $3`, profileID, after, limit)
	if err != nil {
		return nil, err
	}
	return r.scanVisits(rows)
}

func (r *repoPG) RecentReviews(ctx context.Context, profileID uuid.UUID, limit int) ([]*ReviewSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.id, r.rating, r.comment, u.first_name, u.last_name, r.created_at
		FROM review r
		JOIN users u ON u.id = r.patient_id
		WHERE r.doctor_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*ReviewSummary
	for rows.Next() {
		var rv ReviewSummary
		if err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.PatientFirstName, &rv.PatientLastName, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}
