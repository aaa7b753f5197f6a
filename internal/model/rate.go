package model

import "time"

// RateConfig is the room-wide billing policy.  All amounts are stored in
// currency minor units (millimes; 1 DT = 1000 millimes) to avoid float
// drift in the ledger.  The policy is a single-threshold two-tier
// schedule: time accrues at BaseRate per minute until the running total
// reaches Threshold, after which the remaining time of the session is
// billed at ReducedRate.  There is exactly one active config per room;
// updates overwrite it in place.  This struct corresponds to a row in
// the `rate_configs` table.
//
// Fields:
//
//	ID          – primary key identifier.
//	BaseRate    – millimes charged per minute below the threshold.
//	ReducedRate – millimes charged per minute once the threshold is crossed.
//	Threshold   – base-rate amount (millimes) at which the rate switches.
//	Currency    – display label for amounts (e.g. "DT").
//	UpdatedAt   – timestamp of last update.
type RateConfig struct {
	ID          uint64    // rate_configs.id
	BaseRate    int64     // rate_configs.base_rate_millimes
	ReducedRate int64     // rate_configs.reduced_rate_millimes
	Threshold   int64     // rate_configs.threshold_millimes
	Currency    string    // rate_configs.currency
	UpdatedAt   time.Time // rate_configs.updated_at
}
