package contractqa

import (
	"regexp"
	"strings"
)

// paragraphBreak matches a line break, optional whitespace, then one or more line breaks.
// The class covers Unicode whitespace (NBSP, \v, NEL, separators) so it agrees with strings.Fields.
var paragraphBreak = regexp.MustCompile(`\n[\s\v\x1c-\x1f\x{85}\p{Z}]*\n+`)

// Segment splits raw contract text into whitespace-normalized paragraphs.
// Text without a blank line is returned as a single unit; blank input yields nil.
func Segment(text string) []string {
	var units []string
	for _, fragment := range paragraphBreak.Split(text, -1) {
		cleaned := strings.Join(strings.Fields(fragment), " ")
		if cleaned != "" {
			units = append(units, cleaned)
		}
	}
	return units
}
