package request

type UnitListRequest struct {
	Category string `validate:"omitempty,oneof=reading nmcle"`
}
