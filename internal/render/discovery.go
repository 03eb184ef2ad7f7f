package render

// Redrawer is the capability a mounted engine instance exposes once it is live
type Redrawer interface {
	Redraw()
}

// ReadyNotifier is implemented by engines that announce their redraw handle.
// The channel yields the handle once, or closes if the mount never completes.
type ReadyNotifier interface {
	Ready(region *Region) <-chan Redrawer
}

// FindRedrawer searches the tree depth first for a redraw handle. Each node's
// instance is checked, then its state slots, following one level of Ref
// indirection. Visited sets guard against back-links and looping slot chains.
func FindRedrawer(t *Tree) (Redrawer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	visited := make(map[*Node]bool)
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true

		if r, ok := redrawerOf(n); ok {
			return r, true
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
		stack = append(stack, n.Alternate, n.Parent)
	}
	return nil, false
}

func redrawerOf(n *Node) (Redrawer, bool) {
	if r, ok := n.Instance.(Redrawer); ok {
		return r, true
	}

	seen := make(map[*Slot]bool)
	for s := n.State; s != nil && !seen[s]; s = s.Next {
		seen[s] = true
		switch v := s.Value.(type) {
		case Redrawer:
			return v, true
		case *Ref:
			if v == nil {
				continue
			}
			if r, ok := v.Current.(Redrawer); ok {
				return r, true
			}
		}
	}
	return nil, false
}
