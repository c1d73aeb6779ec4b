package store

import (
	"context"
	"encoding/json"
	"time"

	"dailybaht/internal/core"
	"dailybaht/internal/log"
)

// ValidateAndMigrate is the defensive startup pass over everything the
// medium holds. The expense record shape grew over the tracker's lifetime
// (early versions had no date field), so old persisted lists must stay
// loadable: entries missing id, amount or description are dropped; entries
// that are otherwise valid get a missing date backfilled from the bucket
// key they live under and a missing timestamp backfilled with now. A key is
// rewritten only when its content actually changed. Legacy preference
// scalars are folded into the combined settings object in the same pass.
//
// Returns the number of keys rewritten or removed.
func (s *Store) ValidateAndMigrate(ctx context.Context) int {
	migrated := s.migrateLegacySettings(ctx)

	keys, err := s.kv.Keys(ctx, expensesPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enumerate expense keys for migration",
			log.FieldOperation, log.OpMigrate, log.FieldError, err)
		return migrated
	}

	for _, key := range keys {
		date, err := dateFromExpenseKey(key)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping expense key with unparseable date",
				log.FieldOperation, log.OpMigrate, log.FieldKey, key, log.FieldError, err)
			continue
		}

		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var expenses []core.Expense
		if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
			s.logger.WarnContext(ctx, "Skipping undecodable expense list",
				log.FieldOperation, log.OpMigrate, log.FieldKey, key, log.FieldError, err)
			continue
		}

		cleaned, changed := repairExpenses(expenses, date)
		if !changed {
			continue
		}
		if s.SaveExpenses(ctx, cleaned, date) {
			migrated++
		}
	}

	if migrated > 0 {
		s.logger.InfoContext(ctx, "Data validation complete",
			log.FieldOperation, log.OpMigrate, "migrated_keys", migrated)
	}
	return migrated
}

// repairExpenses drops entries that are beyond repair and backfills the
// optional fields of the rest. bucket is the date of the key the list is
// stored under; a backfilled date must agree with it or the entry would
// violate the one-bucket invariant.
func repairExpenses(expenses []core.Expense, bucket core.Date) ([]core.Expense, bool) {
	cleaned := make([]core.Expense, 0, len(expenses))
	changed := false
	for _, e := range expenses {
		if e.ID == "" || e.Amount.Cents <= 0 || e.Description == "" {
			changed = true
			continue
		}
		if e.Date.IsZero() {
			e.Date = bucket
			changed = true
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
			changed = true
		}
		cleaned = append(cleaned, e)
	}
	return cleaned, changed
}
