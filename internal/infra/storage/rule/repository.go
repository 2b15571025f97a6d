package rule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

// Repository репозиторий единственной строки правил бронирования (id = 1)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get читает текущие правила
func (r *Repository) Get(ctx context.Context) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"work_start_minute",
		"work_end_minute",
		"max_booking_minutes",
		"slot_minutes",
		"updated_at",
	).
		From("booking_rules").
		Where(squirrel.Eq{"id": domain.RuleSingletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.BookingRule
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.WorkStartMinute,
		&rule.WorkEndMinute,
		&rule.MaxBookingMinutes,
		&rule.SlotMinutes,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan rule: %v", ErrScanRow, err)
	}

	rule.UpdatedAt = updatedAt.Time
	return &rule, nil
}

// Update атомарно заменяет все четыре значения правил
func (r *Repository) Update(ctx context.Context, rule domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_rules").
		Set("work_start_minute", rule.WorkStartMinute).
		Set("work_end_minute", rule.WorkEndMinute).
		Set("max_booking_minutes", rule.MaxBookingMinutes).
		Set("slot_minutes", rule.SlotMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": domain.RuleSingletonID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rule.UpdatedAt = updatedAt.Time
	return &rule, nil
}

// EnsureDefault создаёт строку правил, если её ещё нет
func (r *Repository) EnsureDefault(ctx context.Context, rule domain.BookingRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns("id", "work_start_minute", "work_end_minute", "max_booking_minutes", "slot_minutes").
		Values(domain.RuleSingletonID, rule.WorkStartMinute, rule.WorkEndMinute, rule.MaxBookingMinutes, rule.SlotMinutes).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: EnsureDefault - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureDefault - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
