// Package actorrepo resolves operator display names from the operators
// table.
package actorrepo

import (
	"context"
	"errors"
	"strings"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperatorDTO is a row of the operators table.
type OperatorDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName string    `gorm:"type:varchar(255);not null"`
}

func (OperatorDTO) TableName() string {
	return "operators"
}

// GormActorDirectory implements ports.ActorDirectory.
type GormActorDirectory struct {
	db *gorm.DB
}

func NewGormActorDirectory(db *gorm.DB) *GormActorDirectory {
	return &GormActorDirectory{db: db}
}

// Add registers or renames an operator.
func (d *GormActorDirectory) Add(ctx context.Context, actorID kernel.UUID, displayName string) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(displayName) == "" {
		return errs.NewValueIsRequiredError("displayName")
	}

	dto := OperatorDTO{ID: actorID.Bytes(), DisplayName: displayName}
	return d.db.WithContext(ctx).Save(&dto).Error
}

func (d *GormActorDirectory) DisplayName(ctx context.Context, actorID kernel.UUID) (string, error) {
	var dto OperatorDTO
	err := d.db.WithContext(ctx).First(&dto, "id = ?", actorID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NewObjectNotFoundError("actorID", actorID.String())
	}
	if err != nil {
		return "", err
	}
	return dto.DisplayName, nil
}
