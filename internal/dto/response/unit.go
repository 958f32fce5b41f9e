package response

import "study-booking/internal/data/entity"

type UnitResponse struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	PriceNPR int    `json:"priceNpr"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Capacity int    `json:"capacity"`
	Img      string `json:"img"`
}

func UnitToResponse(u *entity.Unit) UnitResponse {
	return UnitResponse{
		ID:       u.ID,
		Category: string(u.Category),
		Name:     u.Name,
		Time:     u.Time,
		PriceNPR: u.PriceNPR,
		Rows:     u.Rows,
		Cols:     u.Cols,
		Capacity: u.Capacity(),
		Img:      u.Img,
	}
}
