package sqlite

import (
	"fmt"
	"strings"
)

// Sprintf formats according to a fmt format string, with two extra verbs
// borrowed from sqlite3_mprintf for building SQL text safely:
//
//   - %q writes the argument as text with every single quote doubled.
//   - %Q does the same and wraps the result in single quotes; a nil
//     argument (or nil *string) is written as NULL.
//
// All other verbs are handled by fmt.
//
//	Sprintf("INSERT INTO emp (empname) VALUES (%Q)", "He's bad")
//	// INSERT INTO emp (empname) VALUES ('He''s bad')
//
// https://www.sqlite.org/printf.html
func Sprintf(format string, args ...any) string {
	var (
		sb      strings.Builder
		outArgs = make([]any, 0, len(args))
		argIdx  = 0
	)

	for i := 0; i < len(format); i++ {
		c := format[i]
		sb.WriteByte(c)
		if c != '%' {
			continue
		}

		// Copy flags, width and precision up to the verb.
		j := i + 1
		for j < len(format) && strings.IndexByte("+-# 0123456789.", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			break
		}

		verb := format[j]
		switch verb {
		case '%':
			sb.WriteString(format[i+1 : j+1])
		case 'q', 'Q':
			// The quoted text replaces the whole directive.
			sb.WriteString("s")
			var arg any
			if argIdx < len(args) {
				arg = args[argIdx]
			}
			argIdx++
			outArgs = append(outArgs, quoteArg(arg, verb == 'Q'))
		default:
			sb.WriteString(format[i+1 : j+1])
			if argIdx < len(args) {
				outArgs = append(outArgs, args[argIdx])
			}
			argIdx++
		}
		i = j
	}

	for ; argIdx < len(args); argIdx++ {
		outArgs = append(outArgs, args[argIdx])
	}

	return fmt.Sprintf(sb.String(), outArgs...)
}

// Quote returns s as a SQL string literal with embedded quotes doubled.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteArg(arg any, wrap bool) string {
	var s string
	switch v := arg.(type) {
	case nil:
		if wrap {
			return "NULL"
		}
		return "(NULL)"
	case *string:
		if v == nil {
			if wrap {
				return "NULL"
			}
			return "(NULL)"
		}
		s = *v
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	if wrap {
		return Quote(s)
	}
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteIdentifier returns name as a double-quoted SQL identifier, like the
// %w verb of sqlite3_mprintf.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
