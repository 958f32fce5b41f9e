package usecase

import (
	"study-booking/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Unit UnitService
	Blog BlogService
}

func NewService(repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{
		Unit: NewUnitService(repo.Unit, log),
		Blog: NewBlogService(repo.Post, log),
	}
}
