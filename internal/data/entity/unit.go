package entity

type Category string

const (
	CategoryReading Category = "reading"
	CategoryNMCLE   Category = "nmcle"
)

func (c Category) Valid() bool {
	return c == CategoryReading || c == CategoryNMCLE
}

// Unit is a bookable reading room or class. Its seats form a Rows x Cols grid.
type Unit struct {
	ID       string   `db:"id" json:"id"`
	Category Category `db:"category" json:"category,omitempty"`
	Name     string   `db:"name" json:"name"`
	Time     string   `db:"time_label" json:"time"`
	PriceNPR int      `db:"price_npr" json:"priceNpr"`
	Rows     int      `db:"seat_rows" json:"rows"`
	Cols     int      `db:"seat_cols" json:"cols"`
	Img      string   `db:"img" json:"img"`
}

// Capacity is the number of seats in the grid.
func (u Unit) Capacity() int {
	if u.Rows <= 0 || u.Cols <= 0 {
		return 0
	}
	return u.Rows * u.Cols
}
