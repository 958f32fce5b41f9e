package booking

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"study-booking/internal/catalog"
	"study-booking/internal/data/entity"
	"study-booking/internal/state"
	"study-booking/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readingRoomA = entity.Unit{ID: "read-1", Name: "Reading Room A", PriceNPR: 120, Rows: 5, Cols: 8}

func openPanel(t *testing.T, store kvstore.Store, u entity.Unit) *Panel {
	t.Helper()
	p := NewPanel(store, nil)
	require.NoError(t, p.Open(context.Background(), u))
	return p
}

func storedSeats(t *testing.T, store kvstore.Store, unitID string) SeatMap {
	t.Helper()
	return state.Load(context.Background(), store, catalog.SeatsKey(unitID), SeatMap(nil))
}

func TestPanelScenarioBookThreeSeats(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	p := openPanel(t, store, readingRoomA)

	assert.Equal(t, PhaseOpen, p.Phase())
	assert.Equal(t, 40, p.Available())

	for _, i := range []int{0, 1, 2} {
		assert.True(t, p.ToggleSeat(i))
	}
	assert.Equal(t, PhaseSelecting, p.Phase())
	assert.Equal(t, 360, p.TotalPrice())

	p.SetCustomer(ctx, Customer{Name: "A", Phone: "1"})
	receipt, err := p.ConfirmBooking(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, receipt.Seats)
	assert.Equal(t, []int{1, 2, 3}, receipt.SeatNumbers())
	assert.Equal(t, 360, receipt.TotalPrice)
	assert.Equal(t, 37, receipt.Available)

	assert.Equal(t, PhaseIdle, p.Phase())
	assert.Empty(t, p.Selected())

	seats := storedSeats(t, store, "read-1")
	require.Len(t, seats, 40)
	for i, cell := range seats {
		if i <= 2 {
			assert.Equal(t, SeatBooked, cell, "seat %d", i)
		} else {
			assert.Equal(t, SeatAvailable, cell, "seat %d", i)
		}
	}

	assert.Equal(t, 37, catalog.AvailabilityOf(ctx, store, readingRoomA).Available)

	reopened := openPanel(t, store, readingRoomA)
	assert.Equal(t, 37, reopened.Available())
	assert.Equal(t, 3, reopened.BookedCount())
	assert.Equal(t, Customer{Name: "A", Phone: "1"}, reopened.Customer())
}

func TestToggleParity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		p := openPanel(t, kvstore.NewMemory(), readingRoomA)

		counts := map[int]int{}
		for n := 0; n < 100; n++ {
			i := rng.Intn(40)
			counts[i]++
			p.ToggleSeat(i)
		}

		var want []int
		for i, c := range counts {
			if c%2 == 1 {
				want = append(want, i)
			}
		}
		got := p.Selected()
		sort.Ints(got)
		sort.Ints(want)
		assert.Equal(t, want, got)
	}
}

func TestToggleBookedSeatIsNoop(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ctx, catalog.SeatsKey("read-1"), []byte(`[0,1,0]`)))

	p := openPanel(t, store, readingRoomA)
	require.True(t, p.ToggleSeat(2))

	for n := 0; n < 3; n++ {
		assert.False(t, p.ToggleSeat(1))
	}
	assert.Equal(t, []int{2}, p.Selected())
	assert.False(t, p.IsSelected(1))
}

func TestToggleIgnoresOutOfRangeAndClosedPanel(t *testing.T) {
	p := openPanel(t, kvstore.NewMemory(), readingRoomA)
	assert.False(t, p.ToggleSeat(-1))
	assert.False(t, p.ToggleSeat(40))

	p.Close()
	assert.False(t, p.ToggleSeat(0))
	assert.Equal(t, PhaseIdle, p.Phase())
}

func TestConfirmRejectedLeavesSeatMapUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		toggle   []int
	}{
		{name: "empty selection", customer: Customer{Name: "A", Phone: "1"}},
		{name: "missing name", customer: Customer{Phone: "1"}, toggle: []int{4}},
		{name: "missing phone", customer: Customer{Name: "A", Email: "a@example.com"}, toggle: []int{4}},
		{name: "nothing", toggle: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kvstore.NewMemory()
			require.NoError(t, store.Set(ctx, catalog.SeatsKey("read-1"), []byte(`[1]`)))

			p := openPanel(t, store, readingRoomA)
			before := p.Seats()
			p.SetCustomer(ctx, tt.customer)
			for _, i := range tt.toggle {
				p.ToggleSeat(i)
			}

			assert.False(t, p.CanConfirm())
			_, err := p.ConfirmBooking(ctx)
			assert.ErrorIs(t, err, ErrBookingRejected)

			assert.Equal(t, before, p.Seats())
			assert.Equal(t, before, storedSeats(t, store, "read-1"))
			assert.Equal(t, tt.toggle, nilIfEmpty(p.Selected()))
			assert.NotEqual(t, PhaseIdle, p.Phase())
		})
	}
}

func nilIfEmpty(s []int) []int {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestConfirmKeepsPreviouslyBookedSeats(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	u := entity.Unit{ID: "nm-1", PriceNPR: 300, Rows: 2, Cols: 3}
	require.NoError(t, store.Set(ctx, catalog.SeatsKey(u.ID), []byte(`[1,0,0,1,0,0]`)))

	p := openPanel(t, store, u)
	p.ToggleSeat(5)
	p.ToggleSeat(1)
	p.SetCustomer(ctx, Customer{Name: "B", Phone: "2"})

	receipt, err := p.ConfirmBooking(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, receipt.Seats)
	assert.Equal(t, 600, receipt.TotalPrice)
	assert.Equal(t, 2, receipt.Available)
	assert.Equal(t, SeatMap{1, 1, 0, 1, 0, 1}, storedSeats(t, store, u.ID))
}

func TestCloseDiscardsSelection(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	p := openPanel(t, store, readingRoomA)
	p.ToggleSeat(3)
	p.SetCustomer(ctx, Customer{Name: "A", Phone: "1"})
	p.Close()

	assert.Equal(t, PhaseIdle, p.Phase())
	assert.Empty(t, p.Selected())
	assert.Zero(t, p.TotalPrice())
	assert.Zero(t, catalog.AvailabilityOf(ctx, store, readingRoomA).Booked)

	_, err := p.ConfirmBooking(ctx)
	assert.ErrorIs(t, err, ErrBookingRejected)

	require.NoError(t, p.Open(ctx, readingRoomA))
	assert.Empty(t, p.Selected())
	assert.Equal(t, "A", p.Customer().Name, "customer draft outlives the panel")
}

func TestOpenAnotherUnitResetsSelection(t *testing.T) {
	ctx := context.Background()
	p := openPanel(t, kvstore.NewMemory(), readingRoomA)
	p.ToggleSeat(0)

	other := entity.Unit{ID: "read-5", PriceNPR: 110, Rows: 5, Cols: 6}
	require.NoError(t, p.Open(ctx, other))

	u, ok := p.Unit()
	require.True(t, ok)
	assert.Equal(t, "read-5", u.ID)
	assert.Empty(t, p.Selected())
	assert.Equal(t, 30, p.Capacity())
}

func TestOpenNormalizesStoredSeatMapLength(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	u := entity.Unit{ID: "small", PriceNPR: 10, Rows: 1, Cols: 4}

	require.NoError(t, store.Set(ctx, catalog.SeatsKey(u.ID), []byte(`[1,0]`)))
	p := openPanel(t, store, u)
	assert.Equal(t, SeatMap{1, 0, 0, 0}, p.Seats())
	assert.Equal(t, 3, p.Available())

	require.NoError(t, store.Set(ctx, catalog.SeatsKey(u.ID), []byte(`[1,1,1,1,1,1]`)))
	p = openPanel(t, store, u)
	assert.Equal(t, SeatMap{1, 1, 1, 1}, p.Seats())
	assert.Zero(t, p.Available())
}

func TestOpenRejectsUnitWithoutSeats(t *testing.T) {
	p := NewPanel(kvstore.NewMemory(), nil)
	err := p.Open(context.Background(), entity.Unit{ID: "empty"})
	assert.ErrorIs(t, err, ErrInvalidUnit)
	assert.Equal(t, PhaseIdle, p.Phase())
}

func TestUpdateCustomerSingleField(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	p := openPanel(t, store, readingRoomA)

	p.UpdateCustomer(ctx, func(c Customer) Customer { c.Name = "Asha"; return c })
	p.UpdateCustomer(ctx, func(c Customer) Customer { c.Email = "asha@example.com"; return c })

	got := state.Load(ctx, store, catalog.CustomerKey("read-1"), Customer{})
	assert.Equal(t, Customer{Name: "Asha", Email: "asha@example.com"}, got)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "open", PhaseOpen.String())
	assert.Equal(t, "selecting", PhaseSelecting.String())
}
