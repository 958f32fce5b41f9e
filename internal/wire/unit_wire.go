package wire

import (
	"study-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUnit(r chi.Router, unitHandler *adaptor.UnitHandler) {
	// GET /rooms?category=reading
	r.Get("/rooms", unitHandler.ListRooms)
	r.Get("/rooms/{id}", unitHandler.GetUnit)

	// GET /classes?category=nmcle
	r.Get("/classes", unitHandler.ListClasses)
	r.Get("/classes/{id}", unitHandler.GetUnit)
}
