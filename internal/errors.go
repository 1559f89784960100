package internal

import "errors"

var (
	// Input file problems. Reported before any review starts.
	ErrMalformedStatement = errors.New("malformed statement")

	// User input problems. The operation is aborted before anything is written.
	ErrInvalidAmount      = errors.New("amount is not a valid number")
	ErrNoCategorySelected = errors.New("no category selected")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrEmptySnapshot      = errors.New("no net worth values entered")
	ErrInvalidPeriod      = errors.New("invalid month or year")
	ErrInvalidName        = errors.New("name must not be empty")

	// Workflow state
	ErrReviewNotStarted = errors.New("no statement loaded")
	ErrReviewDone       = errors.New("all transactions have been processed")

	ErrNoNetWorthData = errors.New("no net worth data available")

	// ErrStore wraps database driver errors.
	ErrStore = errors.New("an error occurred while accessing the database")
)

// IsUserError reports whether err was caused by invalid user input that the
// user can correct and retry.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrNoCategorySelected,
		ErrUnknownCategory,
		ErrEmptySnapshot,
		ErrInvalidPeriod,
		ErrInvalidName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
