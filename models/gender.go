package models

import "strings"

// Gender is one of a small closed set of tags.
type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
	GenderOther  Gender = "o"
)

// ParseGender accepts the stored tags plus the spellings found in older exports
// ("w" for female, "d" for diverse). Unknown input yields "".
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "♂":
		return GenderMale
	case "f", "w", "female", "♀":
		return GenderFemale
	case "o", "d", "other", "diverse", "⚧":
		return GenderOther
	default:
		return ""
	}
}

// Symbol is the glyph shown next to a name in table views.
func (g Gender) Symbol() string {
	switch g {
	case GenderMale:
		return "♂"
	case GenderFemale:
		return "♀"
	case GenderOther:
		return "⚧"
	default:
		return ""
	}
}
