package htmlutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"pgregory.net/rapid"
)

func element(tag string, children ...*html.Node) *html.Node {
	node := &html.Node{Type: html.ElementNode, Data: tag}
	for _, c := range children {
		node.AppendChild(c)
	}
	return node
}

func collect(root *html.Node) []*html.Node {
	var out []*html.Node
	it := NewIterator(root)
	for {
		node, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, node)
	}
}

func tags(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Data
	}
	return out
}

func TestIteratorBreadthFirst(t *testing.T) {
	root := element("root",
		element("a",
			element("a1", element("a1x")),
			element("a2"),
		),
		element("b"),
		element("c", element("c1")),
	)

	require.Equal(
		t,
		[]string{"root", "a", "b", "c", "a1", "a2", "c1", "a1x"},
		tags(collect(root)),
	)
}

func TestIteratorExhausted(t *testing.T) {
	it := NewIterator(element("only"))

	node, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, "only", node.Data)

	for i := 0; i < 3; i++ {
		node, ok = it.Next()
		require.False(t, ok)
		require.Nil(t, node)
	}
}

func TestIteratorNilRoot(t *testing.T) {
	require.Empty(t, collect(nil))
}

func TestWalkStopsEarly(t *testing.T) {
	root := element("root", element("a"), element("b"), element("c"))

	var seen []string
	Walk(root, func(node *html.Node) bool {
		seen = append(seen, node.Data)
		return node.Data != "a"
	})
	require.Equal(t, []string{"root", "a"}, seen)
}

// genTree builds a random tree and records the nodes of each depth in
// document order.
func genTree(t *rapid.T, depth int, levels *[][]*html.Node, counter *int) *html.Node {
	*counter++
	node := element(fmt.Sprintf("n%d", *counter))
	for len(*levels) <= depth {
		*levels = append(*levels, nil)
	}
	(*levels)[depth] = append((*levels)[depth], node)

	if depth >= 4 {
		return node
	}
	n := rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("children_%d", *counter))
	for i := 0; i < n; i++ {
		node.AppendChild(genTree(t, depth+1, levels, counter))
	}
	return node
}

func TestIteratorVisitsEveryNodeOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var levels [][]*html.Node
		var counter int
		root := genTree(t, 0, &levels, &counter)

		var expected []*html.Node
		for _, level := range levels {
			expected = append(expected, level...)
		}

		visited := collect(root)
		if len(visited) != counter {
			t.Fatalf("visited %d nodes, tree has %d", len(visited), counter)
		}
		if visited[0] != root {
			t.Fatalf("first node visited was %s, not the root", visited[0].Data)
		}

		seen := map[*html.Node]bool{}
		for i, node := range visited {
			if seen[node] {
				t.Fatalf("node %s visited twice", node.Data)
			}
			seen[node] = true
			if expected[i] != node {
				t.Fatalf("position %d: expected %s got %s", i, expected[i].Data, node.Data)
			}
		}
	})
}
