package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InstantBookingService/pkg/psqlbuilder"
)

// Repository репозиторий клубных карт клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клубных карт
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByCustomer возвращает действующую карту клиента на момент now:
// статус active, карта активирована и не истекла.
// Если подходящих карт несколько, берется созданная последней.
func (r *Repository) GetActiveByCustomer(ctx context.Context, customerID int64, now time.Time) (*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"customer_id",
		"discount_percentage",
		"status",
		"activated_at",
		"expires_at",
		"total_savings",
		"order_count",
		"created_at",
	).
		From("memberships").
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"status": string(domain.MembershipActive)}).
		Where(squirrel.NotEq{"activated_at": nil}).
		Where(squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.Gt{"expires_at": now},
		}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Membership
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.CustomerID,
		&m.DiscountPercentage,
		&m.Status,
		&m.ActivatedAt,
		&m.ExpiresAt,
		&m.TotalSavings,
		&m.OrderCount,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, wrapError(ErrScanRow, "GetActiveByCustomer - scan membership", err)
	}

	m.CreatedAt = createdAt.Time

	return &m, nil
}

// RecordUsage записывает использование карты и обновляет накопленную статистику.
// Оба запроса должны выполняться в одной транзакции с созданием бронирования.
func (r *Repository) RecordUsage(ctx context.Context, usage domain.MembershipUsage) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("membership_usage").
		Columns("membership_id", "booking_id", "original_amount", "discount_amount").
		Values(usage.MembershipID, usage.BookingID, usage.OriginalAmount, usage.DiscountAmount).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordUsage - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return wrapError(ErrExecQuery, "RecordUsage - execute insert", err)
	}

	updateQuery, updateArgs, err := psqlbuilder.Update("memberships").
		Set("total_savings", squirrel.Expr("total_savings + ?", usage.DiscountAmount)).
		Set("order_count", squirrel.Expr("order_count + 1")).
		Where(squirrel.Eq{"id": usage.MembershipID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return wrapError(ErrExecQuery, "RecordUsage - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RecordUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
