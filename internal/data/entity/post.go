package entity

type Post struct {
	BaseSimple
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
}
