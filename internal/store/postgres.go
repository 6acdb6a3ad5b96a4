package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
	"healthtrack/internal/goals"
	"healthtrack/internal/metrics"
)

const uniqueViolation = "23505"

// Postgres is a Repository backed by the tables created by
// database.Migrate.
type Postgres struct {
	pool    *pgxpool.Pool
	metrics *metrics.Registry
}

var _ Repository = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool, metricsRegistry *metrics.Registry) *Postgres {
	return &Postgres{pool: pool, metrics: metricsRegistry}
}

func (p *Postgres) Append(ctx context.Context, r exam.Record) error {
	query := `
		INSERT INTO exam_records (
			id, exam_type, exam_date, status, summary, file_name,
			parameters, recommendations
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	params := r.Parameters
	if params == nil {
		params = []exam.Parameter{}
	}
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}

	_, err := p.pool.Exec(ctx, query,
		r.ID, r.ExamType, r.Date.Time(), string(r.Status), r.Summary, r.FileName,
		params, recs,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("exam " + r.ID + " already exists")
		}
		return apperr.Wrap(err, "failed to append exam")
	}

	p.metrics.Inc(metrics.ExamsAppendedTotal)
	return nil
}

const selectRecord = `
	SELECT id, exam_type, exam_date, status, summary, file_name,
		parameters, recommendations
	FROM exam_records`

func (p *Postgres) List(ctx context.Context) ([]exam.Record, error) {
	rows, err := p.pool.Query(ctx, selectRecord+` ORDER BY seq`)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list exams")
	}
	defer rows.Close()

	out := []exam.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, "failed to list exams")
	}

	p.metrics.Set(metrics.ExamsStored, int64(len(out)))
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (exam.Record, error) {
	p.metrics.Inc(metrics.ExamLookupsTotal)

	r, err := scanRecord(p.pool.QueryRow(ctx, selectRecord+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		p.metrics.Inc(metrics.ExamMissesTotal)
		return exam.Record{}, apperr.NotFound("exam", id)
	}
	if err != nil {
		return exam.Record{}, err
	}
	return r, nil
}

func scanRecord(row pgx.Row) (exam.Record, error) {
	var (
		r      exam.Record
		date   time.Time
		status string
	)
	err := row.Scan(
		&r.ID, &r.ExamType, &date, &status, &r.Summary, &r.FileName,
		&r.Parameters, &r.Recommendations,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return exam.Record{}, err
	}
	if err != nil {
		return exam.Record{}, apperr.Wrap(err, "failed to scan exam")
	}

	// Rows written by an older schema are still held to the enum.
	r.Status, err = exam.ParseStatus(status)
	if err != nil {
		return exam.Record{}, apperr.Wrap(err, "stored exam "+r.ID)
	}
	r.Date = exam.DateOf(date)
	return r, nil
}

func (p *Postgres) MarkRead(ctx context.Context, notificationIDs ...string) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range notificationIDs {
		batch.Queue(`
			INSERT INTO notification_reads (notification_id) VALUES ($1)
			ON CONFLICT (notification_id) DO NOTHING`, id)
	}

	br := p.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range notificationIDs {
		tag, err := br.Exec()
		if err != nil {
			return apperr.Wrap(err, "failed to mark notifications read")
		}
		p.metrics.Add(metrics.NotificationsReadTotal, tag.RowsAffected())
	}
	return nil
}

func (p *Postgres) ReadIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := p.pool.Query(ctx, `SELECT notification_id FROM notification_reads`)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to load read notifications")
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(err, "failed to scan notification id")
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (p *Postgres) AddGoal(ctx context.Context, g goals.Goal) error {
	var deadline *time.Time
	if g.Deadline != nil {
		t := g.Deadline.Time()
		deadline = &t
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO health_goals (
			id, title, description, category, target_value, current_value,
			unit, deadline, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID, g.Title, g.Description, string(g.Category), g.TargetValue, g.CurrentValue,
		g.Unit, deadline, string(g.Status), g.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("goal " + g.ID + " already exists")
		}
		return apperr.Wrap(err, "failed to add goal")
	}
	return nil
}

const selectGoal = `
	SELECT id, title, description, category, target_value, current_value,
		unit, deadline, status, created_at
	FROM health_goals`

func (p *Postgres) ListGoals(ctx context.Context) ([]goals.Goal, error) {
	rows, err := p.pool.Query(ctx, selectGoal+` ORDER BY created_at, id`)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list goals")
	}
	defer rows.Close()

	out := []goals.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoalProgress locks the goal row so concurrent updates apply in turn.
func (p *Postgres) UpdateGoalProgress(ctx context.Context, id string, value float64) (goals.Goal, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return goals.Goal{}, apperr.Wrap(err, "failed to begin goal update")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	g, err := scanGoal(tx.QueryRow(ctx, selectGoal+` WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return goals.Goal{}, apperr.NotFound("goal", id)
	}
	if err != nil {
		return goals.Goal{}, err
	}

	updated, err := g.WithProgress(value)
	if err != nil {
		return goals.Goal{}, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE health_goals SET current_value = $2, status = $3 WHERE id = $1`,
		updated.ID, updated.CurrentValue, string(updated.Status),
	); err != nil {
		return goals.Goal{}, apperr.Wrap(err, "failed to update goal")
	}
	if err := tx.Commit(ctx); err != nil {
		return goals.Goal{}, apperr.Wrap(err, "failed to commit goal update")
	}
	return updated, nil
}

func scanGoal(row pgx.Row) (goals.Goal, error) {
	var (
		g        goals.Goal
		category string
		status   string
		deadline *time.Time
	)
	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &category, &g.TargetValue, &g.CurrentValue,
		&g.Unit, &deadline, &status, &g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return goals.Goal{}, err
	}
	if err != nil {
		return goals.Goal{}, apperr.Wrap(err, "failed to scan goal")
	}

	g.Category = goals.Category(category)
	g.Status = goals.Status(status)
	if deadline != nil {
		d := exam.DateOf(*deadline)
		g.Deadline = &d
	}
	g.Progress = goals.Progress(g.CurrentValue, g.TargetValue)
	return g, nil
}
