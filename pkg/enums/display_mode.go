package enums

import "fmt"

// DisplayMode selects what a device shows: only the price table, only videos, or both.
type DisplayMode string

const (
	DisplayModeTable DisplayMode = "table"
	DisplayModeVideo DisplayMode = "video"
	DisplayModeMixed DisplayMode = "mixed"
)

var validDisplayModes = []DisplayMode{
	DisplayModeTable,
	DisplayModeVideo,
	DisplayModeMixed,
}

// String implements fmt.Stringer.
func (m DisplayMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known DisplayMode.
func (m DisplayMode) IsValid() bool {
	for _, candidate := range validDisplayModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseDisplayMode converts raw input into a DisplayMode.
func ParseDisplayMode(value string) (DisplayMode, error) {
	for _, candidate := range validDisplayModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid display mode %q", value)
}
