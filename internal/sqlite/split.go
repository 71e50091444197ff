package sqlite

import "strings"

// Tokens and states of the statement splitter. The transition table is the
// one sqlite3_complete uses, so statement boundaries match the engine's.
const (
	tokSemi = iota
	tokWS
	tokOther
	tokExplain
	tokCreate
	tokTemp
	tokTrigger
	tokEnd
)

const (
	stateInvalid = iota
	stateStart
	stateNormal
	stateExplain
	stateCreate
	stateTrigger
	stateSemi
	stateEnd
)

var splitTransitions = [8][8]int{
	//                SEMI         WS             OTHER         EXPLAIN        CREATE        TEMP          TRIGGER       END
	stateInvalid: {stateStart, stateInvalid, stateNormal, stateExplain, stateCreate, stateNormal, stateNormal, stateNormal},
	stateStart:   {stateStart, stateStart, stateNormal, stateExplain, stateCreate, stateNormal, stateNormal, stateNormal},
	stateNormal:  {stateStart, stateNormal, stateNormal, stateNormal, stateNormal, stateNormal, stateNormal, stateNormal},
	stateExplain: {stateStart, stateExplain, stateExplain, stateNormal, stateCreate, stateNormal, stateNormal, stateNormal},
	stateCreate:  {stateStart, stateCreate, stateNormal, stateNormal, stateNormal, stateCreate, stateTrigger, stateNormal},
	stateTrigger: {stateSemi, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger},
	stateSemi:    {stateSemi, stateSemi, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateEnd},
	stateEnd:     {stateStart, stateEnd, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger, stateTrigger},
}

// SplitStatements splits query into its SQL statements. Semicolons inside
// string literals, quoted identifiers, comments and CREATE TRIGGER bodies do
// not end a statement. Each statement keeps its terminating semicolon and
// statements made only of whitespace or comments are dropped.
//
// https://www.sqlite.org/c3ref/complete.html
func SplitStatements(query string) []string {
	var stmts []string
	state := stateInvalid
	start := 0
	hasContent := false

	for i := 0; i < len(query); {
		tok, n := nextSplitToken(query[i:])
		state = splitTransitions[state][tok]
		i += n

		if tok != tokWS && tok != tokSemi {
			hasContent = true
		}
		if tok == tokSemi && state == stateStart {
			if hasContent {
				stmts = append(stmts, strings.TrimSpace(query[start:i]))
			}
			start = i
			hasContent = false
		}
	}

	if hasContent {
		stmts = append(stmts, strings.TrimSpace(query[start:]))
	}
	return stmts
}

// nextSplitToken returns the kind and byte length of the token at the start
// of s. Unterminated quotes and comments run to the end of s.
func nextSplitToken(s string) (int, int) {
	c := s[0]

	switch {
	case c == ';':
		return tokSemi, 1
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		return tokWS, 1
	case strings.HasPrefix(s, "--"):
		if j := strings.IndexByte(s, '\n'); j >= 0 {
			return tokWS, j + 1
		}
		return tokWS, len(s)
	case strings.HasPrefix(s, "/*"):
		if j := strings.Index(s[2:], "*/"); j >= 0 {
			return tokWS, j + 4
		}
		return tokWS, len(s)
	case c == '\'' || c == '"' || c == '`':
		if j := strings.IndexByte(s[1:], c); j >= 0 {
			return tokOther, j + 2
		}
		return tokOther, len(s)
	case c == '[':
		if j := strings.IndexByte(s, ']'); j >= 0 {
			return tokOther, j + 1
		}
		return tokOther, len(s)
	case isIDChar(c):
		n := 1
		for n < len(s) && isIDChar(s[n]) {
			n++
		}
		return keywordToken(s[:n]), n
	}
	return tokOther, 1
}

func keywordToken(word string) int {
	switch strings.ToLower(word) {
	case "create":
		return tokCreate
	case "temp", "temporary":
		return tokTemp
	case "trigger":
		return tokTrigger
	case "end":
		return tokEnd
	case "explain":
		return tokExplain
	}
	return tokOther
}

func isIDChar(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
