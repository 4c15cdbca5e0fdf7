package transcript

import (
	"strconv"
	"strings"
)

// ParseTimeMarker converts an M:SS time marker to seconds. Malformed markers
// parse as 0 rather than failing the row.
func ParseTimeMarker(marker string) int {
	parts := strings.Split(strings.TrimSpace(marker), ":")
	if len(parts) != 2 {
		return 0
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	return minutes*60 + seconds
}
