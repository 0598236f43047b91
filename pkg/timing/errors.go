package timing

import "errors"

// Common errors
var (
	// ErrStoreNil is returned when a nil engagement store is provided
	ErrStoreNil = errors.New("engagement store cannot be nil")

	// ErrDestinationEmpty is returned when a destination name is empty
	ErrDestinationEmpty = errors.New("destination cannot be empty")

	// ErrInvalidTimezone is returned when a timezone name cannot be loaded
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidDayPreference is returned for day preferences other than
	// weekend, weekday, or empty
	ErrInvalidDayPreference = errors.New("invalid day preference")

	// ErrInvalidHeuristics is returned when a heuristics file fails to parse
	// or contains invalid windows
	ErrInvalidHeuristics = errors.New("invalid heuristics")
)
