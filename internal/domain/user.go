package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Plan is the subscription tier attached to a user.
type Plan string

const (
	PlanFree      Plan = "free"
	PlanExclusive Plan = "exclusive"
)

// MetadataFreeUsage is the private metadata key holding the free usage counter.
const MetadataFreeUsage = "free_usage"

// ErrInvalidFreeUsage is returned when the stored counter is not a number.
var ErrInvalidFreeUsage = errors.New("invalid free_usage value")

// User is the identity provider's view of an account.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Plan            Plan
	PrivateMetadata map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FreeUsage returns the stored counter and whether the field was present.
// A present value that is not a number is an error, never a fresh counter.
func (u *User) FreeUsage() (int, bool, error) {
	if u == nil || u.PrivateMetadata == nil {
		return 0, false, nil
	}
	raw, ok := u.PrivateMetadata[MetadataFreeUsage]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int32:
		return int(v), true, nil
	case int64:
		return int(v), true, nil
	case float64:
		return int(v), true, nil
	case float32:
		return int(v), true, nil
	case json.Number:
		return parseFreeUsage(v.String())
	case string:
		return parseFreeUsage(v)
	default:
		return 0, true, fmt.Errorf("%w: %T", ErrInvalidFreeUsage, raw)
	}
}

func parseFreeUsage(s string) (int, bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, fmt.Errorf("%w: %q", ErrInvalidFreeUsage, s)
	}
	return n, true, nil
}
