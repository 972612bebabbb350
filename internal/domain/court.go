package domain

import "github.com/sportafit/booking-service/pkg/types"

// Arena a venue with opening hours shared by all its courts
type Arena struct {
	ID        int64
	Name      string
	Address   string
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsActive  bool
}

// IsOpenDuring returns true if [start, end) lies within opening hours
func (a *Arena) IsOpenDuring(start, end types.TimeString) bool {
	return !start.IsBefore(a.OpenTime) && !end.IsAfter(a.CloseTime)
}

// Court a bookable court inside an arena
type Court struct {
	ID           int64
	ArenaID      int64
	Name         string
	PricePerHour int64
	IsActive     bool

	Arena *Arena
}
