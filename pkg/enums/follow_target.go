package enums

import "fmt"

// FollowTargetType distinguishes what kind of entity a follow points at.
type FollowTargetType string

const (
	FollowTargetUser  FollowTargetType = "user"
	FollowTargetStore FollowTargetType = "store"
)

var validFollowTargetTypes = []FollowTargetType{
	FollowTargetUser,
	FollowTargetStore,
}

// String implements fmt.Stringer.
func (t FollowTargetType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known FollowTargetType.
func (t FollowTargetType) IsValid() bool {
	for _, candidate := range validFollowTargetTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseFollowTargetType converts raw input into a FollowTargetType.
func ParseFollowTargetType(value string) (FollowTargetType, error) {
	for _, candidate := range validFollowTargetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid follow target type %q", value)
}
