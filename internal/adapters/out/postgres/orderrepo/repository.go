package orderrepo

import (
	"context"
	"errors"
	"strconv"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db, which may be a
// transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany retrieves the known orders among ids in one query.
func (r *GormOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*order.Order, error) {
	out := make(map[kernel.UUID]*order.Order, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out[o.ID()] = o
	}

	return out, nil
}

// UpdateStatus is a compare-and-set on status_version.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedVersion int, next order.Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status_version = ?", id.Bytes(), expectedVersion).
		Updates(map[string]any{
			"status":         next.String(),
			"status_version": gorm.Expr("status_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var current OrderDTO
	if err := r.db.WithContext(ctx).Select("status_version").First(&current, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		return err
	}
	return errs.NewConcurrentModificationError("order", id,
		"version "+strconv.Itoa(expectedVersion), "version "+strconv.Itoa(current.StatusVersion))
}
