package ports

// TokenMatch is one recognized token occurrence in the input text.
// Offsets are byte positions into the scanned string.
type TokenMatch struct {
	Token string
	Start int // inclusive
	End   int // exclusive
}

// TokenScanner finds declared tokens in raw text using maximal munch:
// at each position the longest declared token wins, and matches never
// overlap. Gaps between successive matches are unrecognized input — the
// tokenizer decides whether a gap is an error or skipped.
//
// A scanner is compiled once from the declared token set and is safe for
// concurrent use.
type TokenScanner interface {
	// Scan returns all non-overlapping leftmost-longest matches in text,
	// in input order.
	Scan(text string) []TokenMatch
}
