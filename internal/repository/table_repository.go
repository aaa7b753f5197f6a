package repository

import (
	"context"
	"database/sql"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// TableRepo provides CRUD operations for billiard tables.  A table's
// availability is not a column: it is derived per query from the absence
// of an open session, so it can never drift out of sync with the session
// ledger.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// TableWithAvailability pairs a table with its derived availability for
// list endpoints.
type TableWithAvailability struct {
	model.Table
	Available bool
}

// GetByID returns a single table.  sql.ErrNoRows is returned when the
// table does not exist.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	const q = `SELECT id, number, name, created_at, updated_at FROM tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Number, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns all tables ordered by floor number, each with its derived
// availability.  When available is non-nil the result is filtered to
// free (true) or occupied (false) tables.
func (r *TableRepo) List(ctx context.Context, available *bool) ([]TableWithAvailability, error) {
	// A table is occupied iff an open session (ended_at IS NULL)
	// references it.
	q := `SELECT t.id, t.number, t.name, t.created_at, t.updated_at,
                 s.id IS NULL AS available
          FROM tables t
          LEFT JOIN sessions s ON s.table_id = t.id AND s.ended_at IS NULL`
	args := []interface{}{}
	if available != nil {
		if *available {
			q += ` WHERE s.id IS NULL`
		} else {
			q += ` WHERE s.id IS NOT NULL`
		}
	}
	q += ` ORDER BY t.number`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TableWithAvailability, 0)
	for rows.Next() {
		var t TableWithAvailability
		if err := rows.Scan(&t.ID, &t.Number, &t.Name, &t.CreatedAt, &t.UpdatedAt, &t.Available); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new table and returns its generated ID.
func (r *TableRepo) Create(ctx context.Context, number uint32, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tables (number, name) VALUES (?, ?)`, number, name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update renames or renumbers a table.  sql.ErrNoRows is returned when
// the table does not exist.
func (r *TableRepo) Update(ctx context.Context, id uint64, number uint32, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tables SET number = ?, name = ? WHERE id = ?`, number, name, id)
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

// Delete removes a table.  It refuses with ErrConflict while the table
// has an open session; closed sessions keep their table_id reference, so
// deletion also fails at the database level when history exists and the
// schema enforces the foreign key.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	var openCount int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE table_id = ? AND ended_at IS NULL`, id).Scan(&openCount)
	if err != nil {
		return err
	}
	if openCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
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
