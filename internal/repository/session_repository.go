package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// SessionRepo persists sessions.  All timestamps are stored in UTC.  It
// satisfies the service layer's SessionStore port: missing rows surface
// as sql.ErrNoRows and GetOpenByTable returns (nil, nil) for a free
// table.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, table_id, client_id, started_at, ended_at, price_millimes, paid, next_player, loser, created_at, updated_at`

// scanSession reads one sessions row from any scanner (sql.Row or
// sql.Rows share the Scan signature).
func scanSession(scan func(dest ...interface{}) error) (model.Session, error) {
	var s model.Session
	var clientID sql.NullInt64
	var endedAt sql.NullTime
	var nextPlayer, loser sql.NullString
	err := scan(&s.ID, &s.TableID, &clientID, &s.StartedAt, &endedAt,
		&s.PriceMillimes, &s.Paid, &nextPlayer, &loser, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Session{}, err
	}
	if clientID.Valid {
		id := uint64(clientID.Int64)
		s.ClientID = &id
	}
	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}
	if nextPlayer.Valid {
		v := nextPlayer.String
		s.NextPlayer = &v
	}
	if loser.Valid {
		v := loser.String
		s.Loser = &v
	}
	return s, nil
}

// GetByID returns a single session, open or closed.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row.Scan)
}

// GetOpenByTable returns the table's open session, or (nil, nil) when
// the table is free.
func (r *SessionRepo) GetOpenByTable(ctx context.Context, tableID uint64) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE table_id = ? AND ended_at IS NULL LIMIT 1`, tableID)
	s, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new open session and populates the generated ID and
// timestamps on the given record.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (table_id, client_id, started_at, paid, next_player) VALUES (?, ?, ?, ?, ?)`,
		s.TableID, s.ClientID, s.StartedAt.UTC(), s.Paid, s.NextPlayer)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query back the row to pick up DB defaults and timestamps.
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = stored
	return nil
}

// Close stamps the end time, freezes the final price and records the
// losing player.  It only touches open sessions; closing an already
// closed session reports sql.ErrNoRows.
func (r *SessionRepo) Close(ctx context.Context, id uint64, end time.Time, price int64, loser *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, price_millimes = ?, loser = ? WHERE id = ? AND ended_at IS NULL`,
		end.UTC(), price, loser, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetPaid sets the paid flag, the one field that stays mutable after a
// session is closed.
func (r *SessionRepo) SetPaid(ctx context.Context, id uint64, paid bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SessionFilter narrows List results.  Nil fields are ignored.  Day
// selects sessions whose start falls on that UTC calendar day.
type SessionFilter struct {
	Open     *bool
	Paid     *bool
	TableID  *uint64
	ClientID *uint64
	Day      *time.Time
}

// List returns sessions matching the filter, newest first.  The
// statistics endpoint passes a Day filter and folds the result in
// memory; the ledger view passes paid/open filters straight from query
// parameters.
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE 1=1`
	args := []interface{}{}
	if f.Open != nil {
		if *f.Open {
			q += ` AND ended_at IS NULL`
		} else {
			q += ` AND ended_at IS NOT NULL`
		}
	}
	if f.Paid != nil {
		q += ` AND paid = ?`
		args = append(args, *f.Paid)
	}
	if f.TableID != nil {
		q += ` AND table_id = ?`
		args = append(args, *f.TableID)
	}
	if f.ClientID != nil {
		q += ` AND client_id = ?`
		args = append(args, *f.ClientID)
	}
	if f.Day != nil {
		dayStart := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, time.UTC)
		q += ` AND started_at >= ? AND started_at < ?`
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
	}
	q += ` ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
