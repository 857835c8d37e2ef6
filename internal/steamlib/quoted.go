package steamlib

import "strings"

// QuotedStrings returns the contents of every double-quoted token in a VDF or
// ACF document, in order. A backslash escapes the next character, so \" does
// not end a token; escapes are kept verbatim in the output.
func QuotedStrings(text string) []string {
	var (
		out     []string
		current strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range text {
		if !inQuote {
			if r == '"' {
				inQuote = true
				current.Reset()
			}
			continue
		}
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == '"':
			out = append(out, current.String())
			inQuote = false
		default:
			current.WriteRune(r)
		}
	}
	return out
}

// valuesOf returns the token following every occurrence of key.
func valuesOf(tokens []string, key string) []string {
	var values []string
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == key {
			values = append(values, tokens[i+1])
			i++
		}
	}
	return values
}

// unescapePath collapses the doubled backslashes Steam writes in Windows paths.
func unescapePath(value string) string {
	return strings.ReplaceAll(value, `\\`, `\`)
}
