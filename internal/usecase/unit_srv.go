package usecase

import (
	"context"
	"fmt"

	"study-booking/internal/catalog"
	"study-booking/internal/data/entity"
	"study-booking/internal/data/repository"
	"study-booking/internal/dto/request"
	"study-booking/internal/dto/response"
	"study-booking/pkg/utils"

	"go.uber.org/zap"
)

type UnitService interface {
	// ListRooms defaults to the reading category, ListClasses to nmcle.
	ListRooms(ctx context.Context, req *request.UnitListRequest) ([]response.UnitResponse, error)
	ListClasses(ctx context.Context, req *request.UnitListRequest) ([]response.UnitResponse, error)
	GetUnit(ctx context.Context, id string) (*response.UnitResponse, error)

	SeedCatalog(ctx context.Context) error
}

type unitService struct {
	repo repository.UnitRepository
	log  *zap.Logger
}

func NewUnitService(repo repository.UnitRepository, log *zap.Logger) UnitService {
	return &unitService{
		repo: repo,
		log:  log.With(zap.String("service", "unit")),
	}
}

func (s *unitService) ListRooms(ctx context.Context, req *request.UnitListRequest) ([]response.UnitResponse, error) {
	return s.list(ctx, req, entity.CategoryReading)
}

func (s *unitService) ListClasses(ctx context.Context, req *request.UnitListRequest) ([]response.UnitResponse, error) {
	return s.list(ctx, req, entity.CategoryNMCLE)
}

func (s *unitService) list(ctx context.Context, req *request.UnitListRequest, fallback entity.Category) ([]response.UnitResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List units validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	category := fallback
	if req.Category != "" {
		category = entity.Category(req.Category)
	}

	units, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list %s units: %w", category, err)
	}

	out := make([]response.UnitResponse, len(units))
	for i, u := range units {
		out[i] = response.UnitToResponse(u)
	}

	s.log.Debug("Units listed",
		zap.String("category", string(category)),
		zap.Int("count", len(out)),
	)
	return out, nil
}

func (s *unitService) GetUnit(ctx context.Context, id string) (*response.UnitResponse, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get unit %s: %w", id, err)
	}
	if unit == nil {
		return nil, fmt.Errorf("unit %s not found", id)
	}

	resp := response.UnitToResponse(unit)
	return &resp, nil
}

// SeedCatalog writes the built-in rooms and classes so a fresh database
// serves the same listings as the offline front end.
func (s *unitService) SeedCatalog(ctx context.Context) error {
	if err := s.repo.Seed(ctx, catalog.All()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
