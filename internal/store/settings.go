package store

import (
	"context"
	"encoding/json"

	"dailybaht/internal/core"
	"dailybaht/internal/log"
)

// Settings returns the persisted settings object, or the configured
// defaults when none is stored or the stored text does not decode. The
// combined app_settings object is the single canonical representation;
// individually-keyed scalars written by old versions are folded into it by
// the migration pass.
func (s *Store) Settings(ctx context.Context) core.Settings {
	raw, ok, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read settings",
			log.FieldOperation, log.OpLoad, log.FieldKey, settingsKey, log.FieldError, err)
		return s.defaults
	}
	if !ok {
		return s.defaults
	}
	settings := s.defaults
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.ErrorContext(ctx, "Stored settings are malformed, using defaults",
			log.FieldOperation, log.OpLoad, log.FieldKey, settingsKey, log.FieldError, err)
		return s.defaults
	}
	return settings
}

// SaveSettings persists the settings object.
func (s *Store) SaveSettings(ctx context.Context, settings core.Settings) bool {
	raw, err := json.Marshal(settings)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize settings",
			log.FieldOperation, log.OpSave, log.FieldKey, settingsKey, log.FieldError, err)
		return false
	}
	if err := s.kv.Set(ctx, settingsKey, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write settings",
			log.FieldOperation, log.OpSave, log.FieldKey, settingsKey, log.FieldError, err)
		return false
	}
	return true
}

// migrateLegacySettings folds the old individually-keyed preference scalars
// into the combined settings object. The scalars only win when no combined
// object exists yet; either way they are deleted so exactly one
// representation remains. Returns the number of keys rewritten or removed.
func (s *Store) migrateLegacySettings(ctx context.Context) int {
	legacyKeys := []string{
		legacyDarkModeKey,
		legacyHomeCurrencyKey,
		legacyExchangeRateKey,
		legacyDefaultBudgetKey,
	}

	_, haveCombined, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check settings during migration",
			log.FieldOperation, log.OpMigrate, log.FieldError, err)
		return 0
	}

	touched := 0
	if !haveCombined {
		settings := s.defaults
		found := false

		if raw, ok, _ := s.kv.Get(ctx, legacyDarkModeKey); ok {
			var darkMode bool
			if err := json.Unmarshal([]byte(raw), &darkMode); err == nil {
				settings.DarkMode = darkMode
				found = true
			}
		}
		if raw, ok, _ := s.kv.Get(ctx, legacyHomeCurrencyKey); ok && raw != "" {
			settings.HomeCurrency = raw
			found = true
		}
		if raw, ok, _ := s.kv.Get(ctx, legacyExchangeRateKey); ok {
			var rate float64
			if err := json.Unmarshal([]byte(raw), &rate); err == nil && rate > 0 {
				settings.ExchangeRate = rate
				found = true
			}
		}
		if raw, ok, _ := s.kv.Get(ctx, legacyDefaultBudgetKey); ok {
			if budget, err := core.ParseMoney(raw); err == nil {
				settings.DefaultBudget = budget
				found = true
			}
		}

		if found && s.SaveSettings(ctx, settings) {
			touched++
			s.logger.InfoContext(ctx, "Imported legacy preference keys into settings",
				log.FieldOperation, log.OpMigrate)
		}
	}

	for _, key := range legacyKeys {
		if _, ok, _ := s.kv.Get(ctx, key); !ok {
			continue
		}
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.ErrorContext(ctx, "Failed to remove legacy preference key",
				log.FieldOperation, log.OpMigrate, log.FieldKey, key, log.FieldError, err)
			continue
		}
		touched++
	}
	return touched
}
