package adaptor

import (
	"study-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Unit *UnitHandler
	Blog *BlogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Unit: NewUnitHandler(service.Unit, log),
		Blog: NewBlogHandler(service.Blog, log),
	}
}
