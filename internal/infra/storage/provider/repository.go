package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InstantBookingService/pkg/psqlbuilder"
)

// Repository справочник исполнителей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исполнителей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListAvailableForService возвращает доступных исполнителей, оказывающих услугу.
// Порядок (priority, id) важен: подбор исполнителя берет первого свободного.
func (r *Repository) ListAvailableForService(ctx context.Context, serviceID int64) ([]*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"p.id",
		"p.user_id",
		"p.name",
		"p.priority",
		"p.is_available",
	).
		From("providers p").
		Join("provider_services ps ON ps.provider_id = p.id").
		Where(squirrel.Eq{"ps.service_id": serviceID}).
		Where(squirrel.Eq{"p.is_available": true}).
		OrderBy("p.priority ASC", "p.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableForService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailableForService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0)
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Priority, &p.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: ListAvailableForService - scan provider: %v", ErrScanRow, err)
		}
		providers = append(providers, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailableForService - rows error: %v", ErrScanRow, err)
	}

	return providers, nil
}

// GetByID получает исполнителя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "name", "priority", "is_available").
		From("providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Provider
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.UserID, &p.Name, &p.Priority, &p.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %v", ErrScanRow, err)
	}

	return &p, nil
}
