package testutil

import "strings"

// UnIndent drops leading newlines, reads the first line's leading
// tabs-or-spaces as the indentation prefix, and strips that exact
// prefix from every line (via [strings.CutPrefix], so lines that do
// not carry the prefix are left alone). It exists so tests can embed
// yaml fixtures as indented raw strings without the indentation
// leaking into the fixture. Mind mixed tabs and spaces: a
// "<space><tab>" prefix will not match a "<tab><space>" line.
func UnIndent(y string) string {
	y = strings.TrimLeft(y, "\n")
	end := 0
	for end < len(y) && (y[end] == '\t' || y[end] == ' ') {
		end++
	}
	prefix := y[:end]

	sb := strings.Builder{}
	sb.Grow(len(y))
	for _, line := range strings.Split(y, "\n") {
		line, _ = strings.CutPrefix(line, prefix)
		sb.WriteString(line)
		sb.WriteRune('\n')
	}
	return sb.String()
}
