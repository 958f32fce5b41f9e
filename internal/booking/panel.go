// Package booking implements the seat booking panel: a seat grid whose booked
// cells persist in a kvstore, a transient selection, and the customer's
// contact details.
package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"study-booking/internal/catalog"
	"study-booking/internal/data/entity"
	"study-booking/internal/state"
	"study-booking/pkg/kvstore"
	"study-booking/pkg/utils"

	"go.uber.org/zap"
)

var (
	// ErrBookingRejected means the booking is incomplete: no seat selected or
	// name/phone missing. Nothing was changed.
	ErrBookingRejected = errors.New("booking rejected: select a seat and enter name and phone")
	ErrInvalidUnit     = errors.New("invalid unit")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOpen
	PhaseSelecting
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseSelecting:
		return "selecting"
	default:
		return "idle"
	}
}

type Customer struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email"`
}

// Receipt describes a confirmed booking.
type Receipt struct {
	UnitID     string   `json:"unitId"`
	UnitName   string   `json:"unitName"`
	Seats      []int    `json:"seats"`
	PricePer   int      `json:"pricePer"`
	TotalPrice int      `json:"totalPrice"`
	Available  int      `json:"available"`
	Customer   Customer `json:"customer"`
}

// SeatNumbers returns the 1-based labels of the booked seats.
func (r Receipt) SeatNumbers() []int {
	out := make([]int, len(r.Seats))
	for i, s := range r.Seats {
		out[i] = s + 1
	}
	return out
}

// Panel is the booking state machine for one unit at a time. Two panels
// sharing a store do not coordinate: the last confirm wins.
type Panel struct {
	store kvstore.Store
	log   *zap.Logger

	mu       sync.Mutex
	unit     entity.Unit
	open     bool
	seats    *state.Keyed[SeatMap]
	customer *state.Keyed[Customer]
	selected []int
}

func NewPanel(store kvstore.Store, log *zap.Logger) *Panel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Panel{
		store: store,
		log:   log.With(zap.String("component", "booking_panel")),
	}
}

// Open shows the panel for u with an empty selection, loading the unit's seat
// map and customer draft. An already open panel is closed first.
func (p *Panel) Open(ctx context.Context, u entity.Unit) error {
	if u.ID == "" || u.Capacity() == 0 {
		return fmt.Errorf("%w: %q has no seats", ErrInvalidUnit, u.ID)
	}

	seats := state.New(p.store, catalog.SeatsKey(u.ID), NewSeatMap(u.Capacity()), p.log)
	seats.Activate(ctx)
	if current := seats.Value(); len(current) != u.Capacity() {
		p.log.Debug("resizing stored seat map",
			zap.String("unit_id", u.ID),
			zap.Int("stored", len(current)),
			zap.Int("capacity", u.Capacity()))
		seats.Set(ctx, current.fit(u.Capacity()))
	}

	customer := state.New(p.store, catalog.CustomerKey(u.ID), Customer{}, p.log)
	customer.Activate(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.unit = u
	p.open = true
	p.seats = seats
	p.customer = customer
	p.selected = nil
	return nil
}

// Close discards the selection. The seat map is left as it is.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Panel) closeLocked() {
	p.open = false
	p.selected = nil
	p.seats = nil
	p.customer = nil
	p.unit = entity.Unit{}
}

func (p *Panel) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phaseLocked()
}

func (p *Panel) phaseLocked() Phase {
	switch {
	case !p.open:
		return PhaseIdle
	case len(p.selected) == 0:
		return PhaseOpen
	default:
		return PhaseSelecting
	}
}

// Unit returns the unit the panel is open for.
func (p *Panel) Unit() (entity.Unit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unit, p.open
}

// ToggleSeat adds seat i to the selection or removes it. Booked seats, seats
// out of range and a closed panel are ignored. It reports whether the
// selection changed.
func (p *Panel) ToggleSeat(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open || i < 0 || i >= p.unit.Capacity() {
		return false
	}
	if p.seats.Value().IsBooked(i) {
		return false
	}

	if idx := slices.Index(p.selected, i); idx >= 0 {
		p.selected = slices.Delete(p.selected, idx, idx+1)
	} else {
		p.selected = append(p.selected, i)
	}
	return true
}

// Selected returns the selected seat indices in the order they were picked.
func (p *Panel) Selected() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.selected...)
}

func (p *Panel) IsSelected(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Contains(p.selected, i)
}

// Seats returns a copy of the seat map, nil when closed.
func (p *Panel) Seats() SeatMap {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil
	}
	return append(SeatMap(nil), p.seats.Value()...)
}

func (p *Panel) Customer() Customer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return Customer{}
	}
	return p.customer.Value()
}

func (p *Panel) SetCustomer(ctx context.Context, c Customer) {
	p.UpdateCustomer(ctx, func(Customer) Customer { return c })
}

// UpdateCustomer edits the draft in place, e.g. a single field.
func (p *Panel) UpdateCustomer(ctx context.Context, fn func(Customer) Customer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return
	}
	p.customer.Update(ctx, fn)
}

func (p *Panel) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return 0
	}
	return p.unit.Capacity()
}

func (p *Panel) BookedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return 0
	}
	return p.seats.Value().BookedCount()
}

func (p *Panel) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return 0
	}
	return p.unit.Capacity() - p.seats.Value().BookedCount()
}

// TotalPrice is the price of the current selection.
func (p *Panel) TotalPrice() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.selected) * p.unit.PriceNPR
}

// CanConfirm reports whether ConfirmBooking would succeed.
func (p *Panel) CanConfirm() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canConfirmLocked()
}

func (p *Panel) canConfirmLocked() bool {
	if !p.open || len(p.selected) == 0 {
		return false
	}
	return len(utils.ValidateStruct(p.customer.Value())) == 0
}

// ConfirmBooking books every selected seat, saves the seat map and closes the
// panel. It returns ErrBookingRejected, changing nothing, when the selection
// is empty or the customer has no name or phone.
func (p *Panel) ConfirmBooking(ctx context.Context) (Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.canConfirmLocked() {
		return Receipt{}, ErrBookingRejected
	}

	chosen := slices.Clone(p.selected)
	updated := p.seats.Value().withBooked(chosen)
	p.seats.Set(ctx, updated)

	slices.Sort(chosen)
	receipt := Receipt{
		UnitID:     p.unit.ID,
		UnitName:   p.unit.Name,
		Seats:      chosen,
		PricePer:   p.unit.PriceNPR,
		TotalPrice: len(chosen) * p.unit.PriceNPR,
		Available:  p.unit.Capacity() - updated.BookedCount(),
		Customer:   p.customer.Value(),
	}

	p.log.Info("Seats booked",
		zap.String("unit_id", receipt.UnitID),
		zap.Ints("seats", receipt.SeatNumbers()),
		zap.Int("total_price", receipt.TotalPrice),
		zap.Int("available", receipt.Available),
	)

	p.closeLocked()
	return receipt, nil
}
