package htmlutil

import "golang.org/x/net/html"

// Iterator walks a parsed document breadth-first: the root first, then every
// level in document order. An Iterator is single use, create a new one to walk
// the tree again.
type Iterator struct {
	queue []*html.Node
}

func NewIterator(root *html.Node) *Iterator {
	if root == nil {
		return &Iterator{}
	}
	return &Iterator{queue: []*html.Node{root}}
}

// Next returns the next node in breadth-first order, children of the returned
// node are queued before Next returns. Once exhausted it keeps returning false.
func (it *Iterator) Next() (*html.Node, bool) {
	if len(it.queue) == 0 {
		return nil, false
	}
	node := it.queue[0]
	it.queue[0] = nil
	it.queue = it.queue[1:]

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		it.queue = append(it.queue, child)
	}
	return node, true
}

// Walk calls fn on every node under (and including) root in breadth-first
// order until fn returns false.
func Walk(root *html.Node, fn func(node *html.Node) bool) {
	it := NewIterator(root)
	for {
		node, ok := it.Next()
		if !ok {
			return
		}
		if !fn(node) {
			return
		}
	}
}
