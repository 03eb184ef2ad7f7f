package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRedrawer struct {
	redraws int
}

func (c *countingRedrawer) Redraw() {
	c.redraws++
}

func TestFindRedrawer_EmptyTree(t *testing.T) {
	_, ok := FindRedrawer(NewTree())
	assert.False(t, ok)
}

func TestFindRedrawer_Instance(t *testing.T) {
	tree := NewTree()
	handle := &countingRedrawer{}
	tree.Commit(&Node{Name: "wrapper", Children: []*Node{{Name: "engine", Instance: handle}}})

	found, ok := FindRedrawer(tree)
	require.True(t, ok)
	assert.Same(t, handle, found)
}

func TestFindRedrawer_SlotIndirection(t *testing.T) {
	handle := &countingRedrawer{}

	direct := NewTree()
	direct.Commit(&Node{State: Slots("a", 1, handle)})
	found, ok := FindRedrawer(direct)
	require.True(t, ok)
	assert.Same(t, handle, found)

	viaRef := NewTree()
	viaRef.Commit(&Node{State: Slots(nil, &Ref{}, &Ref{Current: handle})})
	found, ok = FindRedrawer(viaRef)
	require.True(t, ok)
	assert.Same(t, handle, found)

	// only one level of indirection is followed
	nested := NewTree()
	nested.Commit(&Node{State: Slots(&Ref{Current: &Ref{Current: handle}})})
	_, ok = FindRedrawer(nested)
	assert.False(t, ok)
}

func TestFindRedrawer_ToleratesCycles(t *testing.T) {
	tree := NewTree()
	a := &Node{Name: "a"}
	b := &Node{Name: "b", Alternate: a}
	a.Alternate = b
	a.Children = []*Node{b}
	b.Children = []*Node{a}

	loop := &Slot{Value: "x"}
	loop.Next = &Slot{Value: "y", Next: loop}
	a.State = loop
	tree.Commit(a)

	_, ok := FindRedrawer(tree)
	assert.False(t, ok)

	handle := &countingRedrawer{}
	b.Children = append(b.Children, &Node{Instance: handle})
	found, ok := FindRedrawer(tree)
	require.True(t, ok)
	assert.Same(t, handle, found)
}

func TestTree_Remove(t *testing.T) {
	tree := NewTree()
	n := &Node{Instance: &countingRedrawer{}}
	tree.Commit(n)
	assert.Equal(t, 1, tree.Len())

	tree.Remove(n)
	tree.Remove(n)
	assert.Equal(t, 0, tree.Len())
	_, ok := FindRedrawer(tree)
	assert.False(t, ok)
}

func TestComputeDimensions(t *testing.T) {
	tests := []struct {
		name string
		box  ContainerBox
		want float64
	}{
		{"content width", ContainerBox{Width: 50, PaddingLeft: 2, PaddingRight: 3, ClientWidth: 48}, 45},
		{"padding eats width", ContainerBox{Width: 4, PaddingLeft: 2, PaddingRight: 2, ClientWidth: 30}, 30},
		{"client width", ContainerBox{ClientWidth: 33}, 33},
		{"nothing measured", ContainerBox{}, 40},
		{"negative widths", ContainerBox{Width: -5, ClientWidth: -1}, 40},
		{"infinite width", ContainerBox{Width: math.Inf(1), ClientWidth: math.NaN()}, 40},
		{"nan width", ContainerBox{Width: math.NaN(), ClientWidth: 12}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDimensions(tt.box, 40))
		})
	}
}

func TestRegion_PaintSignalsOnce(t *testing.T) {
	region := NewRegion()
	region.Paint("a")
	region.Paint("b")

	assert.Equal(t, "b", region.Output())
	select {
	case <-region.Painted():
	default:
		t.Fatal("expected a paint signal")
	}
	select {
	case <-region.Painted():
		t.Fatal("paint signals should collapse")
	default:
	}
}
