package itemize

import "regexp"

// Item names on the receipts are printed in capitals, including the
// Croatian letters Č, Ć, Ž, Đ and Š. A name is at least two such tokens.
var nameRe = regexp.MustCompile(`^[A-ZČĆŽĐŠ][A-ZČĆŽĐŠ.]*\s+[A-ZČĆŽĐŠ]`)

// IsName reports whether s looks like an item description
func IsName(s string) bool {
	return nameRe.MatchString(s)
}

// matchNames returns every name line in order and the index of the last one,
// or -1 when there are none.
func matchNames(lines []Line) ([]Line, int) {
	names := make([]Line, 0)
	last := -1
	for _, ln := range lines {
		if IsName(ln.Content) {
			names = append(names, ln)
			last = ln.Index
		}
	}
	return names, last
}
