package engine

import (
	"math"
	"sort"

	"github.com/corey/translit/internal/ports"
)

// immediateKey is the reserved ordered-children key for rule leaves
// reachable without consuming another token.
const immediateKey = "__rules__"

// nodeKind discriminates the closed set of node variants.
type nodeKind uint8

const (
	nodeStart nodeKind = iota
	nodeToken
	nodeRule
)

// node is one vertex of the compiled rule tree. Only the field matching
// kind is meaningful: token for nodeToken, ruleIndex for nodeRule.
//
// children is the ordered-children index: for each incoming token, the
// reachable child node ids sorted ascending by edge cost. Lists keyed by a
// token also include this node's rule leaves, so a leaf stays reachable
// even when the token sequence could continue; leaves alone live under
// immediateKey.
type node struct {
	kind      nodeKind
	token     string
	ruleIndex int
	children  map[string][]int
}

func (n *node) accepting() bool { return n.kind == nodeRule }

// constraintSet holds the context constraints attached to the edge
// terminating in a rule leaf. Constraints appear on no other edges.
type constraintSet struct {
	prevClasses []string
	prevTokens  []string
	nextTokens  []string
	nextClasses []string
}

type edge struct {
	cost        float64
	constraints *constraintSet
}

// ruleGraph is the compiled shared-prefix tree. Node 0 is the start node.
// Built once and immutable afterwards; safe to share across concurrent
// matches.
type ruleGraph struct {
	nodes []node
	edges map[int]map[int]edge
}

func (g *ruleGraph) addNode(n node) int {
	g.nodes = append(g.nodes, n)
	return len(g.nodes) - 1
}

func (g *ruleGraph) setEdge(head, tail int, e edge) {
	tails := g.edges[head]
	if tails == nil {
		tails = make(map[int]edge)
		g.edges[head] = tails
	}
	tails[tail] = e
}

func constraintsOf(r ports.Rule) *constraintSet {
	if len(r.PrevClasses) == 0 && len(r.PrevTokens) == 0 &&
		len(r.NextTokens) == 0 && len(r.NextClasses) == 0 {
		return nil
	}
	return &constraintSet{
		prevClasses: r.PrevClasses,
		prevTokens:  r.PrevTokens,
		nextTokens:  r.NextTokens,
		nextClasses: r.NextClasses,
	}
}

// buildGraph compiles cost-sorted rules into the shared-prefix tree.
//
// Phase one inserts each rule's token path from the root, reusing existing
// token nodes, lowering every traversed edge's cost to the cheapest rule
// passing through it, and attaching a rule leaf (with constraints on its
// incident edge) after the last token. Edge costs start at +Inf, the
// "uninitialized" sentinel.
//
// Phase two derives the ordered-children index. It must run after all
// insertions: an edge's final cost is only known once every rule sharing
// that prefix has lowered it.
func buildGraph(rules []ports.Rule) *ruleGraph {
	g := &ruleGraph{edges: make(map[int]map[int]edge)}
	g.addNode(node{kind: nodeStart})

	tokenChildren := make(map[int]map[string]int)
	ruleChildren := make(map[int][]int)

	for ruleIndex, rule := range rules {
		parent := 0
		for _, token := range rule.Tokens {
			children := tokenChildren[parent]
			childID, ok := children[token]
			if !ok {
				childID = g.addNode(node{kind: nodeToken, token: token})
				g.setEdge(parent, childID, edge{cost: math.Inf(1)})
				if children == nil {
					children = make(map[string]int)
					tokenChildren[parent] = children
				}
				children[token] = childID
			}
			e := g.edges[parent][childID]
			if rule.Cost < e.cost {
				e.cost = rule.Cost
				g.edges[parent][childID] = e
			}
			parent = childID
		}

		leafID := g.addNode(node{kind: nodeRule, ruleIndex: ruleIndex})
		ruleChildren[parent] = append(ruleChildren[parent], leafID)
		g.setEdge(parent, leafID, edge{cost: rule.Cost, constraints: constraintsOf(rule)})
	}

	for id := range g.nodes {
		children := make(map[string][]int)

		leaves := ruleChildren[id]
		if len(leaves) > 0 {
			sorted := append([]int(nil), leaves...)
			sort.SliceStable(sorted, func(a, b int) bool {
				return g.edges[id][sorted[a]].cost < g.edges[id][sorted[b]].cost
			})
			children[immediateKey] = sorted
			leaves = sorted
		}

		for token, childID := range tokenChildren[id] {
			ids := make([]int, 0, 1+len(leaves))
			ids = append(ids, childID)
			ids = append(ids, leaves...)
			sort.SliceStable(ids, func(a, b int) bool {
				return g.edges[id][ids[a]].cost < g.edges[id][ids[b]].cost
			})
			children[token] = ids
		}

		g.nodes[id].children = children
	}

	return g
}
