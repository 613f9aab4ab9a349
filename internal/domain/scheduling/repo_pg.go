package scheduling

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

func (r *repoPG) RulesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Rule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_time, end_time
		FROM availability_rule
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(&rule.ID, &rule.DoctorID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

func (r *repoPG) ReplaceRules(ctx context.Context, doctorID uuid.UUID, rules []*Rule) error {
	c := r.conn(ctx)
	if _, err := c.Exec(ctx, `DELETE FROM availability_rule WHERE doctor_id = $1`, doctorID); err != nil {
		return err
	}
	for _, rule := range rules {
		rule.ID = uuid.New()
		rule.DoctorID = doctorID
		if _, err := c.Exec(ctx, `
			INSERT INTO availability_rule (id, doctor_id, day_of_week, start_time, end_time)
			VALUES ($1,$2,$3,$4,$5)`,
			rule.ID, rule.DoctorID, rule.DayOfWeek, rule.StartTime, rule.EndTime); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) BookedSlots(ctx context.Context, doctorID uuid.UUID, from, to string) ([]*BookedSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.date, a.start_time, a.type, u.first_name || ' ' || u.last_name
		FROM appointment a
		JOIN users u ON u.id = a.patient_id
		WHERE a.doctor_id = $1
		  AND a.date >= $2 AND a.date <= $3
		  AND a.status <> 'cancelled'
		ORDER BY a.date, a.start_time`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var booked []*BookedSlot
	for rows.Next() {
		var b BookedSlot
		if err := rows.Scan(&b.Date, &b.StartTime, &b.Type, &b.PatientName); err != nil {
			return nil, err
		}
		booked = append(booked, &b)
	}
	return booked, rows.Err()
}
