package adaptor

import (
	"net/http"

	"study-booking/internal/dto/request"
	"study-booking/internal/usecase"
	"study-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UnitHandler struct {
	service usecase.UnitService
	log     *zap.Logger
}

func NewUnitHandler(service usecase.UnitService, log *zap.Logger) *UnitHandler {
	return &UnitHandler{
		service: service,
		log:     log.With(zap.String("handler", "unit")),
	}
}

// ListRooms handles GET /rooms?category=reading
func (h *UnitHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	req := &request.UnitListRequest{Category: r.URL.Query().Get("category")}

	units, err := h.service.ListRooms(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list rooms")
		return
	}

	utils.ResponseData(w, http.StatusOK, units)
}

// ListClasses handles GET /classes?category=nmcle
func (h *UnitHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	req := &request.UnitListRequest{Category: r.URL.Query().Get("category")}

	units, err := h.service.ListClasses(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list classes")
		return
	}

	utils.ResponseData(w, http.StatusOK, units)
}

// GetUnit handles GET /rooms/{id} and GET /classes/{id}
func (h *UnitHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unitID := chi.URLParam(r, "id")
	if unitID == "" {
		utils.ResponseBadRequest(w, "Unit ID is required", nil)
		return
	}

	unit, err := h.service.GetUnit(r.Context(), unitID)
	if err != nil {
		handleServiceError(h.log, w, err, "get unit")
		return
	}

	utils.ResponseData(w, http.StatusOK, unit)
}
