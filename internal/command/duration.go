package command

import (
	"strconv"
	"strings"

	"dailiesbot/internal/chore"
)

// ParseDuration parses an ad-hoc duration token: a signed integer followed
// by a unit letter (d, w or m, case-insensitive), e.g. "2d", "-1w", "3m".
// A token that does not match reports ok=false; the caller decides whether
// that is an error.
func ParseDuration(token string) (n int, unit chore.Unit, ok bool) {
	if len(token) < 2 {
		return 0, "", false
	}
	u := chore.Unit(strings.ToLower(token[len(token)-1:]))
	if !u.Valid() {
		return 0, "", false
	}
	v, err := strconv.Atoi(token[:len(token)-1])
	if err != nil {
		return 0, "", false
	}
	return v, u, true
}
