package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// ClientRepo provides lookup and creation of clients.  Clients are
// registered on demand when a session starts for a name the hall has
// not seen before, and are never deleted.
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepo returns a new ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

func scanClient(row *sql.Row) (model.Client, error) {
	var c model.Client
	var phone sql.NullString
	err := row.Scan(&c.ID, &c.Name, &phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Client{}, err
	}
	if phone.Valid {
		p := phone.String
		c.Phone = &p
	}
	return c, nil
}

// GetByID returns a single client.  sql.ErrNoRows is returned when the
// client does not exist.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (model.Client, error) {
	const q = `SELECT id, name, phone, created_at, updated_at FROM clients WHERE id = ?`
	return scanClient(r.db.QueryRowContext(ctx, q, id))
}

// GetByName returns the client with the exact given name.  Lookups are
// case-insensitive under the table's collation.
func (r *ClientRepo) GetByName(ctx context.Context, name string) (model.Client, error) {
	const q = `SELECT id, name, phone, created_at, updated_at FROM clients WHERE name = ? LIMIT 1`
	return scanClient(r.db.QueryRowContext(ctx, q, strings.TrimSpace(name)))
}

// Create inserts a new client and returns its generated ID.
func (r *ClientRepo) Create(ctx context.Context, name string, phone *string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name, phone) VALUES (?, ?)`, strings.TrimSpace(name), phone)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Search returns up to limit clients whose name starts with the given
// prefix, for the dashboard's instant search box.  An empty prefix
// lists clients alphabetically from the start.
func (r *ClientRepo) Search(ctx context.Context, prefix string, limit int) ([]model.Client, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT id, name, phone, created_at, updated_at FROM clients`
	args := []interface{}{}
	prefix = strings.TrimSpace(prefix)
	if prefix != "" {
		q += ` WHERE name LIKE ?`
		args = append(args, prefix+"%")
	}
	q += ` ORDER BY name LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Client, 0, limit)
	for rows.Next() {
		var c model.Client
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			c.Phone = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
