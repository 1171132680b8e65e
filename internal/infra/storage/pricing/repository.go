package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InstantBookingService/pkg/psqlbuilder"
)

// Repository источник правил ценообразования и цен дополнительных опций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил ценообразования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByService получает правило для конкретной услуги (serviceID != nil) или глобальное (serviceID == nil)
func (r *Repository) GetByService(ctx context.Context, serviceID *int64) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"service_id",
		"base_price",
		"service_fee_pct",
		"demand_index",
		"created_at",
		"updated_at",
	).
		From("pricing_rules")

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByService - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.PricingRule
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.ServiceID,
		&rule.BasePrice,
		&rule.ServiceFeePct,
		&rule.DemandIndex,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByService - scan rule: %v", ErrScanRow, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

// GetRuleWithHierarchy получает правило с учетом иерархии приоритетов:
// 1. Правило для конкретной услуги
// 2. Глобальное правило (service_id IS NULL)
//
// Если правило не найдено ни на одном уровне, возвращает ErrRuleNotFound
func (r *Repository) GetRuleWithHierarchy(ctx context.Context, serviceID int64) (*domain.PricingRule, error) {
	// 1. Пробуем получить правило для конкретной услуги
	rule, err := r.GetByService(ctx, &serviceID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, ErrRuleNotFound) {
		return nil, fmt.Errorf("%w: GetRuleWithHierarchy - level 1 (service): %v", ErrExecQuery, err)
	}

	// 2. Пробуем получить глобальное правило
	rule, err = r.GetByService(ctx, nil)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, ErrRuleNotFound) {
		return nil, fmt.Errorf("%w: GetRuleWithHierarchy - level 2 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrRuleNotFound
}

// GetAddonsTotal возвращает суммарную стоимость дополнительных опций услуги.
// Повторяющиеся ID учитываются один раз. Если какая-то опция не принадлежит услуге, возвращает ErrAddonNotFound.
func (r *Repository) GetAddonsTotal(ctx context.Context, serviceID int64, addonIDs []int64) (decimal.Decimal, error) {
	unique := uniqueIDs(addonIDs)
	if len(unique) == 0 {
		return decimal.Zero, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "price").
		From("service_addons").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"id": unique}).
		ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: GetAddonsTotal - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: GetAddonsTotal - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	total := decimal.Zero
	found := 0
	for rows.Next() {
		var id int64
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return decimal.Zero, fmt.Errorf("%w: GetAddonsTotal - scan addon: %v", ErrScanRow, err)
		}
		total = total.Add(price)
		found++
	}

	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: GetAddonsTotal - rows error: %v", ErrScanRow, err)
	}

	if found != len(unique) {
		return decimal.Zero, fmt.Errorf("%w: requested %d, found %d", ErrAddonNotFound, len(unique), found)
	}

	return total, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
