package repository

import (
	"study-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Unit UnitRepository
	Post PostRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Unit: NewUnitRepository(db, log),
		Post: NewPostRepository(db, log),
	}
}
