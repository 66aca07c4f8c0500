// Package timer verifies countdown authenticity by sampling the same
// page twice across real elapsed time.
package timer

import (
	"regexp"
	"strconv"
)

var (
	hmsRe      = regexp.MustCompile(`(\d{1,2}):(\d{2}):(\d{2})`)
	hmRe       = regexp.MustCompile(`(\d{1,2}):(\d{2})(?:\D|$)`)
	hmsWordsRe = regexp.MustCompile(`(?i)(\d+)\s*h(?:ours?)?\s*(\d+)\s*m(?:in(?:utes?)?)?\s*(\d+)\s*s(?:ec(?:onds?)?)?`)
	hmWordsRe  = regexp.MustCompile(`(?i)(\d+)\s*h(?:ours?)?\s*(\d+)\s*m(?:in(?:utes?)?)?`)
)

// ExtractSeconds pulls a countdown value from markup and returns the
// remaining seconds. Formats tried in preference order: HH:MM:SS,
// HH:MM, "Nh Mm Ss", "Nh Mm".
func ExtractSeconds(markup string) (int, bool) {
	if m := hmsRe.FindStringSubmatch(markup); m != nil {
		return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3]), true
	}
	if m := hmRe.FindStringSubmatch(markup); m != nil {
		return atoi(m[1])*3600 + atoi(m[2])*60, true
	}
	if m := hmsWordsRe.FindStringSubmatch(markup); m != nil {
		return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3]), true
	}
	if m := hmWordsRe.FindStringSubmatch(markup); m != nil {
		return atoi(m[1])*3600 + atoi(m[2])*60, true
	}
	return 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
