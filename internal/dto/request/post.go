package request

type CreatePostRequest struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank,max=20000"`
}
