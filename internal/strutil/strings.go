package strutil

import (
	"regexp"
	"strings"
	"unicode"
)

var bracketsRe = regexp.MustCompile(`(\[(.*?)\]|\((.*?)\))`)

// RemoveContentIntoBrackets removes content inside brackets, including brackets
func RemoveContentIntoBrackets(s string) string {
	return bracketsRe.ReplaceAllString(s, "")
}

// RemoveExtraSpaces collapses runs of whitespace into one space and trims the ends
// For example RemoveExtraSpaces("hello  world  ") return "hello world"
func RemoveExtraSpaces(s string) string {
	idx := 0

	return strings.TrimFunc(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			idx++
			if idx > 1 {
				return -1
			}
			return ' '
		} else if idx > 0 {
			idx = 0
		}

		return r
	}, s), unicode.IsSpace)
}

// FoldName reduces a currency display name to a comparable key: bracketed notes are dropped,
// whitespace is collapsed and letters are lower-cased. "US  Dollar (USD)" and "us dollar" fold alike
func FoldName(s string) string {
	return strings.ToLower(RemoveExtraSpaces(RemoveContentIntoBrackets(s)))
}
