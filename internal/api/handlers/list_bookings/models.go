package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/sportafit/booking-service/internal/service/bookings/models"
)

// ParseQuery собирает фильтры из query параметров
// status, arena_id, court_id, user_id, date_from, date_to, limit, offset
func ParseQuery(q url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if v := q.Get("status"); v != "" {
		req.Status = &v
	}
	if v := q.Get("date_from"); v != "" {
		req.DateFrom = &v
	}
	if v := q.Get("date_to"); v != "" {
		req.DateTo = &v
	}

	ids := []struct {
		name string
		dst  **int64
	}{
		{"arena_id", &req.ArenaID},
		{"court_id", &req.CourtID},
		{"user_id", &req.UserID},
	}
	for _, id := range ids {
		v := q.Get(id.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid %s", id.name)
		}
		*id.dst = &parsed
	}

	var err error
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = intParam(q, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}
