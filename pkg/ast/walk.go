package ast

// Children returns the ordered child list of a container, or nil for a
// leaf.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Loop:
		return n.Children
	case *Program:
		return n.Children
	default:
		return nil
	}
}

// Walk calls fn for each node in order and stops at the first error. It
// does not descend into containers; callers recurse when they need to.
func Walk(nodes []Node, fn func(Node) error) error {
	for _, child := range nodes {
		if err := fn(child); err != nil {
			return err
		}
	}
	return nil
}

// Inspect traverses the tree rooted at node in pre-order. Returning false
// from fn skips the node's children.
func Inspect(node Node, fn func(node Node, depth int) bool) {
	inspect(node, 0, fn)
}

func inspect(node Node, depth int, fn func(Node, int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, child := range Children(node) {
		inspect(child, depth+1, fn)
	}
}

// Stats summarises the shape of a parsed tree.
type Stats struct {
	Commands   int
	Operations int
	Loops      int
	EmptyLoops int
	Zeros      int
	MaxDepth   int
}

// Collect gathers Stats for the tree rooted at node. Operations counts
// source operations, so a run of five '+' adds one command and five
// operations.
func Collect(node Node) Stats {
	var stats Stats
	Inspect(node, func(n Node, depth int) bool {
		switch v := n.(type) {
		case *CommandNode:
			stats.Commands++
			stats.Operations += v.Count
			if v.Command == Zero {
				stats.Zeros++
			}
		case *Loop:
			stats.Loops++
			if v.Len() == 0 {
				stats.EmptyLoops++
			}
			if depth > stats.MaxDepth {
				stats.MaxDepth = depth
			}
		}
		return true
	})
	return stats
}
