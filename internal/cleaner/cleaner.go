// Package cleaner normalises raw extracted text before chunking.
// It strips repeated page headers/footers and repairs the hard line
// wrapping that extractors leave behind.
package cleaner

import (
	"regexp"
	"strings"
)

// headerFooterPatterns match whole lines that are page furniture rather
// than content: "Page 12", bare page numbers, "- 3 -", "第 5 頁".
var headerFooterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^Page\s+\d+`),
	regexp.MustCompile(`^第\s*\d+\s*頁`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^-?\s*\d+\s*-?$`),
}

var (
	// Spurious spaces between adjacent punctuation, a line-wrap artifact.
	punctGapRe = regexp.MustCompile(`([^\w\s])\s+([^\w\s])`)

	// Spaces wrongly inserted before CJK punctuation.
	cjkPunctRe = regexp.MustCompile(`\s+([，。！？；：])`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Cleaner normalises extracted text. It is a pure, deterministic
// transformation with no side effects.
type Cleaner struct{}

// New creates a cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// Clean drops header/footer lines, rejoins wrapped lines into a single
// string and collapses whitespace. Empty input yields empty output.
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeaderFooter(line) {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, " ")
	return repairLineBreaks(joined)
}

// isHeaderFooter reports whether a line matches a known page furniture pattern.
func isHeaderFooter(line string) bool {
	for _, re := range headerFooterPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// repairLineBreaks removes artifacts introduced by joining wrapped lines.
func repairLineBreaks(text string) string {
	text = punctGapRe.ReplaceAllString(text, "$1$2")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = cjkPunctRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
