package enums

import "fmt"

// Orientation describes how the screen is mounted.
type Orientation string

const (
	OrientationHorizontal    Orientation = "horizontal"
	OrientationVerticalLeft  Orientation = "vertical_left"
	OrientationVerticalRight Orientation = "vertical_right"
)

var validOrientations = []Orientation{
	OrientationHorizontal,
	OrientationVerticalLeft,
	OrientationVerticalRight,
}

func (o Orientation) String() string {
	return string(o)
}

func (o Orientation) IsValid() bool {
	for _, candidate := range validOrientations {
		if candidate == o {
			return true
		}
	}
	return false
}

func ParseOrientation(value string) (Orientation, error) {
	for _, candidate := range validOrientations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid orientation %q", value)
}
