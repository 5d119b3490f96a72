package codes

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// Root is the code of the founding ancestor.
	Root = "1"
	// PartnerMarker is appended to a person's code to form their partner's code.
	PartnerMarker = "x"
)

var (
	genTwoPattern   = regexp.MustCompile(`^1[A-Z]$`)
	genThreePattern = regexp.MustCompile(`^1[A-Z]\d+$`)
	genFourPattern  = regexp.MustCompile(`^1[A-Z]\d+[A-Z]$`)
)

// Normalize brings a raw code from user input or external data into its stored form.
// Empty input and the literal "0" mean "no code" and yield "".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0" {
		return ""
	}
	if strings.HasSuffix(s, "x") || strings.HasSuffix(s, "X") {
		return strings.ToUpper(s[:len(s)-1]) + PartnerMarker
	}
	return strings.ToUpper(s)
}

// IsPartner reports whether code names a partner record.
func IsPartner(code string) bool {
	return strings.HasSuffix(code, PartnerMarker)
}

// PartnerOf returns the code a partner of code receives.
func PartnerOf(code string) string {
	return code + PartnerMarker
}

// Base strips a trailing partner marker.
func Base(code string) string {
	return strings.TrimSuffix(code, PartnerMarker)
}

// Generation derives the generation depth from the shape of code alone.
// It never consults stored relationships, so it is safe during bulk fixups.
func Generation(code string) int {
	if code == "" {
		return 0
	}
	base := Base(code)
	switch {
	case base == Root:
		return 1
	case genTwoPattern.MatchString(base):
		return 2
	case genThreePattern.MatchString(base):
		return 3
	case genFourPattern.MatchString(base):
		return 4
	}
	return 1 + countSegments(strings.TrimPrefix(base, Root))
}

// countSegments counts alternating runs of letters and digits.
func countSegments(s string) int {
	count := 0
	prevDigit, started := false, false
	for _, r := range s {
		isDigit := unicode.IsDigit(r)
		if !started || isDigit != prevDigit {
			count++
		}
		prevDigit, started = isDigit, true
	}
	return count
}

// ChildSuffix returns the suffix of the child at sorted position index (zero based)
// under a parent of the given generation. Children of a generation 2 parent are
// numbered 1, 2, 3...; all others are lettered A, B, C...
func ChildSuffix(parentGeneration, index int) string {
	if parentGeneration == 2 {
		return strconv.Itoa(index + 1)
	}
	return Letters(index)
}

// Letters renders index as A..Z, AA, AB... (bijective base 26).
func Letters(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
