// Package catalog holds the built-in reading rooms and classes and computes
// their seat availability.
package catalog

import (
	"context"
	"fmt"

	"study-booking/internal/data/entity"
	"study-booking/internal/state"
	"study-booking/pkg/kvstore"
)

var ReadingRooms = []entity.Unit{
	{ID: "read-1", Category: entity.CategoryReading, Name: "Reading Room A", Time: "6:00 AM – 10:00 PM", PriceNPR: 120, Rows: 5, Cols: 8, Img: "https://images.unsplash.com/photo-1529156069898-49953e39b3ac?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-2", Category: entity.CategoryReading, Name: "Reading Room B", Time: "6:00 AM – 10:00 PM", PriceNPR: 120, Rows: 5, Cols: 8, Img: "https://images.unsplash.com/photo-1519681393784-d120267933ba?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-3", Category: entity.CategoryReading, Name: "Quiet Zone", Time: "7:00 AM – 9:00 PM", PriceNPR: 150, Rows: 6, Cols: 7, Img: "https://images.unsplash.com/photo-1524995997946-a1c2e315a42f?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-4", Category: entity.CategoryReading, Name: "Window Bay", Time: "7:00 AM – 9:00 PM", PriceNPR: 140, Rows: 6, Cols: 7, Img: "https://images.unsplash.com/photo-1507842217343-583bb7270b66?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-5", Category: entity.CategoryReading, Name: "Reference Nook", Time: "8:00 AM – 8:00 PM", PriceNPR: 110, Rows: 5, Cols: 6, Img: "https://images.unsplash.com/photo-1529156069898-49953e39b3ac?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-6", Category: entity.CategoryReading, Name: "Group Study", Time: "8:00 AM – 8:00 PM", PriceNPR: 130, Rows: 5, Cols: 6, Img: "https://images.unsplash.com/photo-1457369804613-52c61a468e7d?q=80&w=1200&auto=format&fit=crop"},
	{ID: "read-7", Category: entity.CategoryReading, Name: "Evening Hall", Time: "2:00 PM – 10:00 PM", PriceNPR: 100, Rows: 5, Cols: 6, Img: "https://images.unsplash.com/photo-1497633762265-9d179a990aa6?q=80&w=1200&auto=format&fit=crop"},
}

var NMCLEClasses = []entity.Unit{
	{ID: "nm-1", Category: entity.CategoryNMCLE, Name: "Physiology – Morning Batch", Time: "7:00 – 9:00 AM", PriceNPR: 300, Rows: 6, Cols: 10, Img: "https://images.unsplash.com/photo-1503676260728-1c00da094a0b?q=80&w=1200&auto=format&fit=crop"},
	{ID: "nm-2", Category: entity.CategoryNMCLE, Name: "Pharmacology – Afternoon", Time: "1:00 – 3:00 PM", PriceNPR: 320, Rows: 6, Cols: 10, Img: "https://images.unsplash.com/photo-1518779578993-ec3579fee39f?q=80&w=1200&auto=format&fit=crop"},
	{ID: "nm-3", Category: entity.CategoryNMCLE, Name: "Anatomy – Evening", Time: "5:00 – 7:00 PM", PriceNPR: 350, Rows: 6, Cols: 10, Img: "https://images.unsplash.com/photo-1523580846011-d3a5bc25702b?q=80&w=1200&auto=format&fit=crop"},
}

// ForCategory returns a copy of the built-in list for c, or nil for an
// unknown category.
func ForCategory(c entity.Category) []entity.Unit {
	switch c {
	case entity.CategoryReading:
		return append([]entity.Unit(nil), ReadingRooms...)
	case entity.CategoryNMCLE:
		return append([]entity.Unit(nil), NMCLEClasses...)
	default:
		return nil
	}
}

// All returns every built-in unit, reading rooms first.
func All() []entity.Unit {
	out := make([]entity.Unit, 0, len(ReadingRooms)+len(NMCLEClasses))
	out = append(out, ReadingRooms...)
	return append(out, NMCLEClasses...)
}

// Find looks a unit up by id in units.
func Find(units []entity.Unit, id string) (entity.Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return entity.Unit{}, false
}

// SeatsKey is the store key holding a unit's seat map.
func SeatsKey(unitID string) string {
	return "seats_" + unitID
}

// CustomerKey is the store key holding a unit's customer draft.
func CustomerKey(unitID string) string {
	return "cust_" + unitID
}

type Availability struct {
	UnitID    string `json:"unitId"`
	Total     int    `json:"total"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

func (a Availability) String() string {
	return fmt.Sprintf("%d / %d", a.Available, a.Total)
}

// AvailabilityOf reads the unit's seat map without binding it. Only cells
// inside the unit's capacity count.
func AvailabilityOf(ctx context.Context, store kvstore.Store, u entity.Unit) Availability {
	total := u.Capacity()
	seats := state.Load(ctx, store, SeatsKey(u.ID), []int{})

	booked := 0
	for i, cell := range seats {
		if i >= total {
			break
		}
		if cell == 1 {
			booked++
		}
	}
	return Availability{UnitID: u.ID, Total: total, Booked: booked, Available: total - booked}
}
