package stl

// Fields splits a line into tokens. Tokens are separated by runs of
// whitespace; a single comma or semicolon inside a gap is an extra
// separator and is dropped. Tokens never contain whitespace, commas or
// semicolons, and empty tokens are never returned.
func Fields(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		i = skipSpace(line, i)
		if i < len(line) && isSeparator(line[i]) {
			i++
		}
		i = skipSpace(line, i)

		start := i
		for i < len(line) && !isSpace(line[i]) && !isSeparator(line[i]) {
			i++
		}
		if i > start {
			fields = append(fields, line[start:i])
		}
	}
	return fields
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isSeparator(c byte) bool {
	return c == ',' || c == ';'
}
