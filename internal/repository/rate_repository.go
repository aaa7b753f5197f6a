package repository

import (
	"context"
	"database/sql"

	"github.com/skanderbh/billiard-hall/internal/model"
)

// RateRepo stores the room's single billing policy.  There is one row in
// rate_configs; Update overwrites it in place so historical sessions keep
// the price that was frozen when they closed.
type RateRepo struct {
	db *sql.DB
}

// NewRateRepo returns a new RateRepo bound to the given database.
func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

// Current returns the active rate config.  sql.ErrNoRows is returned
// when the room has not been configured yet.
func (r *RateRepo) Current(ctx context.Context) (model.RateConfig, error) {
	const q = `SELECT id, base_rate_millimes, reduced_rate_millimes, threshold_millimes, currency, updated_at
               FROM rate_configs ORDER BY id LIMIT 1`
	var rc model.RateConfig
	err := r.db.QueryRowContext(ctx, q).Scan(
		&rc.ID, &rc.BaseRate, &rc.ReducedRate, &rc.Threshold, &rc.Currency, &rc.UpdatedAt)
	return rc, err
}

// Update overwrites the room policy, inserting the row on first use.
func (r *RateRepo) Update(ctx context.Context, base, reduced, threshold int64, currency string) (model.RateConfig, error) {
	cur, err := r.Current(ctx)
	if err == sql.ErrNoRows {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO rate_configs (base_rate_millimes, reduced_rate_millimes, threshold_millimes, currency) VALUES (?, ?, ?, ?)`,
			base, reduced, threshold, currency)
		if err != nil {
			return model.RateConfig{}, err
		}
		return r.Current(ctx)
	}
	if err != nil {
		return model.RateConfig{}, err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE rate_configs SET base_rate_millimes = ?, reduced_rate_millimes = ?, threshold_millimes = ?, currency = ? WHERE id = ?`,
		base, reduced, threshold, currency, cur.ID)
	if err != nil {
		return model.RateConfig{}, err
	}
	return r.Current(ctx)
}
