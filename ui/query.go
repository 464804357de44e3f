package ui

// Walk calls f for n and its descendants, depth first. Children of a node are skipped when
// f returns false for it.
func (n *Node) Walk(f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(f)
	}
}

// Find returns the first node with the given test ID, or nil.
func (n *Node) Find(testID string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.TestID == testID {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindKind returns all nodes of the given kind, in document order.
func (n *Node) FindKind(kind Kind) []*Node {
	var nodes []*Node
	n.Walk(func(node *Node) bool {
		if node.Kind == kind {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// Texts returns the text of n and its descendants in document order.
func (n *Node) Texts() []string {
	var texts []string
	n.Walk(func(node *Node) bool {
		if node.Text != "" {
			texts = append(texts, node.Text)
		}
		return true
	})
	return texts
}

// Interactive returns the nodes a user can act on: inputs, buttons, options and headers with
// a back command, in document order.
func (n *Node) Interactive() []*Node {
	var nodes []*Node
	n.Walk(func(node *Node) bool {
		switch node.Kind {
		case KindInput, KindRepeatedInput:
			if node.OnChange != nil {
				nodes = append(nodes, node)
			}
		case KindButton, KindOption, KindHeader:
			if node.Command != nil {
				nodes = append(nodes, node)
			}
		}
		return true
	})
	return nodes
}
