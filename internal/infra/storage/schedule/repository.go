package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/dbmetrics"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/psqlbuilder"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// Настройки хранятся одной строкой с фиксированным id
const settingsRowID = 1

// Repository репозиторий конфигурации расписания и политики буфера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetScheduleConfig собирает полную конфигурацию расписания:
// глобальные настройки + дни недели + дни отпуска
func (r *Repository) GetScheduleConfig(ctx context.Context) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"lesson_duration_minutes",
		"buffer_time_minutes",
	).
		From("schedule_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleConfig - build settings query: %v", ErrBuildQuery, err)
	}

	config := domain.DefaultScheduleConfig()

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.LessonDurationMinutes,
		&config.BufferTimeMinutes,
	)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduleConfig - scan settings: %v", ErrScanRow, err)
	}

	if err := r.loadDays(ctx, executor, config); err != nil {
		return nil, err
	}
	if err := r.loadVacationDays(ctx, executor, config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDays читает конфигурацию дней недели
func (r *Repository) loadDays(ctx context.Context, executor DBExecutor, config *domain.ScheduleConfig) error {
	query, args, err := psqlbuilder.Select(
		"day_of_week",
		"enabled",
		"open_time",
		"close_time",
	).
		From("schedule_days").
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadDays - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayOfWeek int
		var day domain.DayConfig
		var openTime, closeTime types.TimeString

		if err := rows.Scan(&dayOfWeek, &day.Enabled, &openTime, &closeTime); err != nil {
			return fmt.Errorf("%w: loadDays - scan row: %v", ErrScanRow, err)
		}

		day.OpenTime = openTime
		day.CloseTime = closeTime
		config.Days[time.Weekday(dayOfWeek)] = day
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadDays - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// loadVacationDays читает дни отпуска
func (r *Repository) loadVacationDays(ctx context.Context, executor DBExecutor, config *domain.ScheduleConfig) error {
	query, args, err := psqlbuilder.Select("day").
		From("vacation_days").
		OrderBy("day ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadVacationDays - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadVacationDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return fmt.Errorf("%w: loadVacationDays - scan row: %v", ErrScanRow, err)
		}
		config.VacationDays[day.Format(domain.DateFormat)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadVacationDays - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// UpdateScheduleConfig полностью заменяет конфигурацию расписания
// Вызывающий код оборачивает вызов в транзакцию, чтобы настройки,
// дни недели и отпуска обновились согласованно
func (r *Repository) UpdateScheduleConfig(ctx context.Context, config *domain.ScheduleConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Настройки - upsert единственной строки
	query, args, err := psqlbuilder.Insert("schedule_settings").
		Columns("id", "lesson_duration_minutes", "buffer_time_minutes").
		Values(settingsRowID, config.LessonDurationMinutes, config.BufferTimeMinutes).
		Suffix("ON CONFLICT (id) DO UPDATE SET lesson_duration_minutes = EXCLUDED.lesson_duration_minutes, buffer_time_minutes = EXCLUDED.buffer_time_minutes, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - build settings upsert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - execute settings upsert: %v", ErrExecQuery, err)
	}

	// Дни недели - полная замена
	query, args, err = psqlbuilder.Delete("schedule_days").ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - build days delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - execute days delete: %v", ErrExecQuery, err)
	}

	for weekday, day := range config.Days {
		query, args, err = psqlbuilder.Insert("schedule_days").
			Columns("day_of_week", "enabled", "open_time", "close_time").
			Values(int(weekday), day.Enabled, day.OpenTime, day.CloseTime).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateScheduleConfig - build day insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateScheduleConfig - execute day insert: %v", ErrExecQuery, err)
		}
	}

	// Дни отпуска - полная замена
	query, args, err = psqlbuilder.Delete("vacation_days").ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - build vacations delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateScheduleConfig - execute vacations delete: %v", ErrExecQuery, err)
	}

	for day := range config.VacationDays {
		query, args, err = psqlbuilder.Insert("vacation_days").
			Columns("day").
			Values(day).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateScheduleConfig - build vacation insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateScheduleConfig - execute vacation insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// GetBufferPolicy получает политику буферного времени
func (r *Repository) GetBufferPolicy(ctx context.Context) (*domain.BufferPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"enabled",
		"default_minutes",
		"min_minutes",
		"max_minutes",
		"adaptive",
		"per_type_minutes",
	).
		From("buffer_policy").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBufferPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.BufferPolicy
	var perTypeRaw []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.Enabled,
		&policy.DefaultMinutes,
		&policy.MinMinutes,
		&policy.MaxMinutes,
		&policy.Adaptive,
		&perTypeRaw,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBufferPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBufferPolicy - scan policy: %v", ErrScanRow, err)
	}

	policy.PerTypeMinutes = map[domain.LessonType]int{}
	if len(perTypeRaw) > 0 {
		if err := json.Unmarshal(perTypeRaw, &policy.PerTypeMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetBufferPolicy - unmarshal per-type map: %v", ErrScanRow, err)
		}
	}

	return &policy, nil
}

// UpdateBufferPolicy сохраняет политику буферного времени (upsert)
func (r *Repository) UpdateBufferPolicy(ctx context.Context, policy *domain.BufferPolicy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	perTypeRaw, err := json.Marshal(policy.PerTypeMinutes)
	if err != nil {
		return fmt.Errorf("%w: UpdateBufferPolicy - marshal per-type map: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("buffer_policy").
		Columns("id", "enabled", "default_minutes", "min_minutes", "max_minutes", "adaptive", "per_type_minutes").
		Values(settingsRowID, policy.Enabled, policy.DefaultMinutes, policy.MinMinutes, policy.MaxMinutes, policy.Adaptive, perTypeRaw).
		Suffix("ON CONFLICT (id) DO UPDATE SET enabled = EXCLUDED.enabled, default_minutes = EXCLUDED.default_minutes, min_minutes = EXCLUDED.min_minutes, max_minutes = EXCLUDED.max_minutes, adaptive = EXCLUDED.adaptive, per_type_minutes = EXCLUDED.per_type_minutes, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateBufferPolicy - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateBufferPolicy - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
