package expire_bookings

import "errors"

// ErrInternal не удалось получить список истёкших бронирований
var ErrInternal = errors.New("expire_bookings: internal error")
