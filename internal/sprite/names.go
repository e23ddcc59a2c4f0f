package sprite

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// alphabetSize is the number of letters used by generated frame names.
const alphabetSize = 26

// ParseNames splits a name scheme into individual names. A scheme containing a
// comma is a comma-separated list with surrounding whitespace trimmed;
// otherwise every character is one name ("ABCD" names four frames).
func ParseNames(scheme string) []string {
	if strings.Contains(scheme, ",") {
		parts := strings.Split(scheme, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			names = append(names, strings.TrimSpace(p))
		}
		return names
	}

	names := make([]string, 0, utf8.RuneCountInString(scheme))
	for _, r := range scheme {
		names = append(names, string(r))
	}
	return names
}

// GenerateFrameNames returns n alphabetical names: A..Z, then AA, AB, and so on.
func GenerateFrameNames(n int) []string {
	names := make([]string, 0, max(n, 0))
	for i := range max(n, 0) {
		names = append(names, columnName(i))
	}
	return names
}

// columnName converts a zero-based index to a bijective base-26 letter name.
func columnName(i int) string {
	var buf [16]byte
	pos := len(buf)
	for i++; i > 0; i = (i - 1) / alphabetSize {
		pos--
		buf[pos] = byte('A' + (i-1)%alphabetSize)
	}
	return string(buf[pos:])
}

// GenerateAngleNames returns the names "1" through "n".
func GenerateAngleNames(n int) []string {
	names := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		names = append(names, strconv.Itoa(i))
	}
	return names
}
