package classify

import (
	"strings"
	"unicode"
)

// DefaultIndicators are the filename substrings that mark a PNG as a
// screenshot. macOS writes "Screen Shot", Windows "Screenshot" or
// "Screenclip", most snipping tools one of the rest. The whitespace
// stripping in normalize folds "Screen Shot" into "screenshot".
var DefaultIndicators = []string{
	"screenshot",
	"screen_shot",
	"screenclip",
	"capture",
	"snip",
}

// Classifier decides whether a filename denotes a screenshot.
// The zero value uses DefaultIndicators.
type Classifier struct {
	Indicators []string
}

// New returns a Classifier with the given indicator substrings, falling
// back to DefaultIndicators when none are supplied.
func New(indicators []string) *Classifier {
	if len(indicators) == 0 {
		indicators = DefaultIndicators
	}
	return &Classifier{Indicators: indicators}
}

// IsScreenshot reports whether filename names a screenshot PNG. The name
// is lower-cased and stripped of all whitespace, then must end in ".png"
// and contain at least one indicator substring. Pure predicate, no I/O.
func (c *Classifier) IsScreenshot(filename string) bool {
	name := normalize(filename)
	if !strings.HasSuffix(name, ".png") {
		return false
	}
	indicators := c.Indicators
	if len(indicators) == 0 {
		indicators = DefaultIndicators
	}
	for _, ind := range indicators {
		if ind == "" {
			continue
		}
		if strings.Contains(name, ind) {
			return true
		}
	}
	return false
}

func normalize(filename string) string {
	lower := strings.ToLower(filename)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
