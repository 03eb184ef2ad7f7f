package render

import "sync"

// Ref is a mutable box an engine keeps in its state slots. Current is the
// value the engine wants to expose once it has one.
type Ref struct {
	Current interface{}
}

// Slot is one entry of a node's state chain
type Slot struct {
	Value interface{}
	Next  *Slot
}

// Node is a mounted element inside a region. Parent and Alternate are
// back-links, so the node graph can contain cycles.
type Node struct {
	Name      string
	Instance  interface{}
	State     *Slot
	Children  []*Node
	Parent    *Node
	Alternate *Node
}

// Slots builds a state chain from values in order
func Slots(values ...interface{}) *Slot {
	var head *Slot
	for i := len(values) - 1; i >= 0; i-- {
		head = &Slot{Value: values[i], Next: head}
	}
	return head
}

// Tree holds the nodes committed into a region. Engines commit from their own
// goroutines while the UI loop reads, so access is guarded.
type Tree struct {
	mu   sync.RWMutex
	root *Node
}

func NewTree() *Tree {
	return &Tree{root: &Node{Name: "region"}}
}

// Commit attaches n under the root
func (t *Tree) Commit(n *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n.Parent = t.root
	t.root.Children = append(t.root.Children, n)
}

// Remove detaches n from the root. Unknown nodes are ignored.
func (t *Tree) Remove(n *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	children := t.root.Children[:0]
	for _, child := range t.root.Children {
		if child != n {
			children = append(children, child)
		}
	}
	t.root.Children = children
	n.Parent = nil
}

// Len returns the number of committed top-level nodes
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.root.Children)
}
