package enums

import "fmt"

// ModifierType distinguishes priced add-ons from zero-price option choices
// such as bread type.
type ModifierType string

const (
	ModifierTypeAddon  ModifierType = "addon"
	ModifierTypeOption ModifierType = "option"
)

var validModifierTypes = []ModifierType{
	ModifierTypeAddon,
	ModifierTypeOption,
}

// String implements fmt.Stringer.
func (m ModifierType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ModifierType.
func (m ModifierType) IsValid() bool {
	for _, candidate := range validModifierTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModifierType converts raw input into a ModifierType.
func ParseModifierType(value string) (ModifierType, error) {
	for _, candidate := range validModifierTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modifier type %q", value)
}
