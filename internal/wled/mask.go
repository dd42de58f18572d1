package wled

import (
	"fmt"
	"strconv"
	"strings"
)

// WLED addresses UDP sync groups 1 through 8 as bits 0 through 7 of a byte.
const groupCount = 8

// ParseGroupMask converts a user-entered group list ("1,3,5") into the sync
// group bitmask the controller expects. An empty or all-whitespace string and
// the word "none" (any case) mean no groups, mask 0. Every token must be an
// integer between 1 and 8; one bad token invalidates the whole input.
//
// Listing a group twice is harmless: bits are OR-ed in.
func ParseGroupMask(text string) (uint8, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return 0, nil
	}

	var mask uint8
	for _, token := range strings.Split(trimmed, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			// Stray commas ("1,,3" or a trailing comma) are tolerated.
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, NewValidationError(fmt.Sprintf("invalid sync group %q (want 1-%d or \"none\")", token, groupCount))
		}
		if n < 1 || n > groupCount {
			return 0, NewValidationError(fmt.Sprintf("sync group %d out of range (want 1-%d)", n, groupCount))
		}
		mask |= 1 << (n - 1)
	}

	return mask, nil
}

// FormatGroupMask renders a sync group bitmask back into the comma form
// accepted by ParseGroupMask. Mask 0 renders as "none".
func FormatGroupMask(mask uint8) string {
	if mask == 0 {
		return "none"
	}

	var groups []string
	for n := 1; n <= groupCount; n++ {
		if mask&(1<<(n-1)) != 0 {
			groups = append(groups, strconv.Itoa(n))
		}
	}
	return strings.Join(groups, ",")
}
