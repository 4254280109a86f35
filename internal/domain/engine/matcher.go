package engine

// frame is one pending traversal step: a node to visit, the parent it is
// reached from (identifying the incident edge), and the token index to
// resume at.
type frame struct {
	nodeID  int
	parent  int
	tokenAt int
}

// MatchAt returns the index of the least costly rule matching at pos in a
// sentinel-bounded token slice, and false when no rule matches there.
func (e *Engine) MatchAt(pos int, tokens []string) (int, bool) {
	matches := e.matchAt(pos, tokens, false)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0], true
}

// MatchAllAt returns every rule matching at pos, best first. The result is
// empty, never nil, when nothing matches.
func (e *Engine) MatchAllAt(pos int, tokens []string) []int {
	matches := e.matchAt(pos, tokens, true)
	if matches == nil {
		matches = []int{}
	}
	return matches
}

// matchAt walks the compiled tree best-first. Children are pre-sorted by
// edge cost and pushed in reverse, so the LIFO stack pops the cheapest
// candidate first; no priority queue is needed, and the first accepting
// leaf whose constraints hold is the least costly match.
func (e *Engine) matchAt(pos int, tokens []string, matchAll bool) []int {
	var matches []int
	var stack []frame

	// push appends a node's ordered children at tokenAt, reversed. When the
	// token at tokenAt continues the tree, that list already includes any
	// rule leaves here; otherwise only the immediate leaves are candidates.
	push := func(nodeID, tokenAt int) {
		children := e.graph.nodes[nodeID].children
		ids := children[tokens[tokenAt]]
		if len(ids) == 0 {
			ids = children[immediateKey]
		}
		for i := len(ids) - 1; i >= 0; i-- {
			stack = append(stack, frame{nodeID: ids[i], parent: nodeID, tokenAt: tokenAt})
		}
	}

	push(0, pos)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &e.graph.nodes[f.nodeID]
		if n.accepting() && e.constraintsOK(f.parent, f.nodeID, f.tokenAt, tokens) {
			if !matchAll {
				return []int{n.ruleIndex}
			}
			matches = append(matches, n.ruleIndex)
			continue
		}

		// Token consumed (or leaf rejected): advance, clamped to the final
		// sentinel, and descend.
		tokenAt := f.tokenAt
		if tokenAt < len(tokens)-1 {
			tokenAt++
		}
		push(f.nodeID, tokenAt)
	}

	return matches
}

// constraintsOK checks the constraints on the edge parent→target against
// the token windows around the consumed segment. tokenAt points just past
// the tokens the rule consumed. All present constraint kinds must hold.
func (e *Engine) constraintsOK(parent, target, tokenAt int, tokens []string) bool {
	c := e.graph.edges[parent][target].constraints
	if c == nil {
		return true
	}
	numTokens := len(e.rules[e.graph.nodes[target].ruleIndex].Tokens)

	if len(c.prevTokens) > 0 {
		start := tokenAt - numTokens - len(c.prevTokens)
		if !e.matchWindow(start, c.prevTokens, tokens, checkPrev, byToken) {
			return false
		}
	}
	if len(c.nextTokens) > 0 {
		if !e.matchWindow(tokenAt, c.nextTokens, tokens, checkNext, byToken) {
			return false
		}
	}
	if len(c.prevClasses) > 0 {
		start := tokenAt - numTokens - len(c.prevTokens) - len(c.prevClasses)
		if !e.matchWindow(start, c.prevClasses, tokens, checkPrev, byClass) {
			return false
		}
	}
	if len(c.nextClasses) > 0 {
		start := tokenAt + len(c.nextTokens)
		if !e.matchWindow(start, c.nextClasses, tokens, checkNext, byClass) {
			return false
		}
	}
	return true
}

type windowSide uint8

const (
	checkPrev windowSide = iota
	checkNext
)

type windowMode uint8

const (
	byToken windowMode = iota
	byClass
)

// matchWindow matches a constraint window starting at start against the
// token slice. Any out-of-bounds window fails. Class windows test
// membership in the global token→classes map; token windows require exact
// identity.
func (e *Engine) matchWindow(start int, want []string, tokens []string, side windowSide, mode windowMode) bool {
	if side == checkPrev && start < 0 {
		return false
	}
	if side == checkNext && start+len(want) > len(tokens) {
		return false
	}
	for i, w := range want {
		if mode == byClass {
			if _, ok := e.tokenClasses[tokens[start+i]][w]; !ok {
				return false
			}
		} else if tokens[start+i] != w {
			return false
		}
	}
	return true
}
