package court

import "errors"

var (
	// ErrCourtNotFound корт не найден
	ErrCourtNotFound = errors.New("court.repository: court not found")

	ErrBuildQuery = errors.New("court.repository: failed to build query")
	ErrScanRow    = errors.New("court.repository: failed to scan row")
)
