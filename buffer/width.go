package buffer

import "github.com/mattn/go-runewidth"

// RuneWidth returns the terminal column width of r: 0 for combining
// marks, 2 for East-Asian Wide/Fullwidth and most emoji, 1 otherwise.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// ClusterWidth returns the display width of a grapheme cluster, taking it
// from the cluster's first code point per spec.md: "Width is computed
// from the first code point by a table". Combining marks attached after
// the first rune do not add width.
func ClusterWidth(cluster []rune) int {
	if len(cluster) == 0 {
		return 0
	}
	return RuneWidth(cluster[0])
}

// IsPrintable reports whether r is a normal, non-control printable code
// point (r >= 0x20 and not DEL). The input decoder's literal matcher
// does its own byte classification and does not call this.
func IsPrintable(r rune) bool {
	return r >= 0x20 && r != 0x7f
}
