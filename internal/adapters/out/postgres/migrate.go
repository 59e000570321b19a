package postgres

import (
	"servicedesk/internal/adapters/out/postgres/actorrepo"
	"servicedesk/internal/adapters/out/postgres/historyrepo"
	"servicedesk/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the service-desk tables and their indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &historyrepo.TransitionDTO{}, &actorrepo.OperatorDTO{})
}
