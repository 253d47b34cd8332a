package reader

// BlankJSON5 replaces comments and trailing commas of a JSON5 text with
// spaces and turns the \' escape of single-quoted strings into the doubled
// quote YAML expects. Newlines are kept and no byte moves, so line and
// column numbers of the result match the input.
func BlankJSON5(src []byte) []byte {
	out := append([]byte(nil), src...)
	blankComments(out)
	blankTrailingCommas(out)

	return out
}

func blankComments(b []byte) {
	var quote byte

	for i := 0; i < len(b); i++ {
		c := b[i]

		if quote != 0 {
			switch c {
			case '\\':
				if quote == '\'' && i+1 < len(b) && b[i+1] == '\'' {
					b[i] = '\''
				}

				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			for ; i < len(b) && b[i] != '\n'; i++ {
				b[i] = ' '
			}
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			b[i], b[i+1] = ' ', ' '
			i += 2

			for ; i < len(b); i++ {
				if b[i] == '*' && i+1 < len(b) && b[i+1] == '/' {
					b[i], b[i+1] = ' ', ' '
					i++

					break
				}

				if b[i] != '\n' {
					b[i] = ' '
				}
			}
		}
	}
}

func blankTrailingCommas(b []byte) {
	var quote byte

	for i := 0; i < len(b); i++ {
		c := b[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case ',':
			if next := nextSignificant(b, i+1); next < len(b) && (b[next] == '}' || b[next] == ']') {
				b[i] = ' '
			}
		}
	}
}

func nextSignificant(b []byte, from int) int {
	for i := from; i < len(b); i++ {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return i
		}
	}

	return len(b)
}
