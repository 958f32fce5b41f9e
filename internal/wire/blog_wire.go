package wire

import (
	"study-booking/internal/adaptor"
	"study-booking/pkg/middleware"
	"study-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBlog(r chi.Router, blogHandler *adaptor.BlogHandler, config *utils.Config, log *zap.Logger) {
	r.Get("/blogs", blogHandler.ListPosts)
	r.Post("/blogs", blogHandler.CreatePost)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminToken(config.Admin.TokenHash, log))

		r.Delete("/blogs/{id}", blogHandler.DeletePost)
	})
}
