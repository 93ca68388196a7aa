package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMovementID returns a movement ID like "2024-03-001".
func FormatMovementID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// WithSuffix returns a per-row ID like "2024-03-001a" (n 0='a', 1='b', etc.).
// Used when one statement row produces several movements.
func WithSuffix(movementID string, n int) string {
	return movementID + string(rune('a'+n))
}

// ParseMovementID parses "2024-03-001" (suffix allowed) into year, month, seq.
func ParseMovementID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(Group(id), "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid movement ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in movement ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in movement ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month out of range in movement ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in movement ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// Group strips the row suffix from a movement ID.
// "2024-03-001a" -> "2024-03-001"
func Group(movementID string) string {
	i := len(movementID)
	for i > 0 && movementID[i-1] >= 'a' && movementID[i-1] <= 'z' {
		i--
	}
	return movementID[:i]
}
