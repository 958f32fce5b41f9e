package response

import (
	"time"

	"study-booking/internal/data/entity"
)

type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func PostToResponse(p *entity.Post) PostResponse {
	return PostResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}
