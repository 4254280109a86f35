package engine

// Tokenize turns input text into a bounded token sequence. The scanner
// supplies maximal-munch matches over the declared tokens; gaps between
// matches are unrecognized input. One default whitespace token is always
// prepended and appended, so downstream constraint checks never need
// bounds handling at either end.
//
// With consolidation on, interior whitespace runs collapse to a single
// token and leading/trailing whitespace disappears into the sentinels.
// In strict mode the first unrecognized byte fails the call; with
// IgnoreErrors the gap is skipped.
func (e *Engine) Tokenize(input string) ([]string, error) {
	ws := e.whitespace
	tokens := []string{ws.Default}
	prevWhitespace := true

	pos := 0
	for _, m := range e.scanner.Scan(input) {
		if m.Start > pos && !e.ignoreErrors {
			return nil, &UnrecognizedTokenError{Position: pos, Input: input}
		}
		pos = m.End

		if e.isWhitespace(m.Token) {
			if prevWhitespace && ws.Consolidate {
				continue
			}
			prevWhitespace = true
		} else {
			prevWhitespace = false
		}
		tokens = append(tokens, m.Token)
	}
	if pos < len(input) && !e.ignoreErrors {
		return nil, &UnrecognizedTokenError{Position: pos, Input: input}
	}

	if ws.Consolidate {
		for len(tokens) > 1 && e.isWhitespace(tokens[len(tokens)-1]) {
			tokens = tokens[:len(tokens)-1]
		}
	}

	return append(tokens, ws.Default), nil
}

func (e *Engine) isWhitespace(token string) bool {
	_, ok := e.tokenClasses[token][e.whitespace.TokenClass]
	return ok
}
