// Package tree holds the directory structure of included files and renders it
// as a box-drawing tree.
package tree

import (
	"bufio"
	"io"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentBar  = "│   "
	indentGap  = "    "
)

// Node is a directory (IsDir) or an included file. Children keep insertion order,
// which the walker makes lexicographic.
type Node struct {
	Name     string
	IsDir    bool
	Children []*Node
}

// New creates a directory node
func New(name string) *Node {
	return &Node{Name: name, IsDir: true}
}

// AddDir appends a child directory and returns it
func (n *Node) AddDir(name string) *Node {
	child := New(name)
	n.Children = append(n.Children, child)
	return child
}

// AddFile appends a file leaf
func (n *Node) AddFile(name string) {
	n.Children = append(n.Children, &Node{Name: name})
}

// RemoveChild drops child from n. Only the most recently added child is ever
// pruned during a walk, so the search starts from the end.
func (n *Node) RemoveChild(child *Node) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i] == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// Empty reports whether the directory has no children left
func (n *Node) Empty() bool {
	return len(n.Children) == 0
}

// FileCount returns the number of file leaves below n
func (n *Node) FileCount() int {
	if !n.IsDir {
		return 1
	}
	total := 0
	for _, child := range n.Children {
		total += child.FileCount()
	}
	return total
}

// Render writes the tree rooted at root, one line per node, followed by note
// when it is not empty.
func Render(w io.Writer, root *Node, note string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(".\n")

	// Explicit stack of (node, prefix, last) so deep trees do not recurse
	type item struct {
		node   *Node
		prefix string
		last   bool
	}
	var stack []item
	pushChildren := func(parent *Node, prefix string) {
		for i := len(parent.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: parent.Children[i], prefix: prefix, last: i == len(parent.Children)-1})
		}
	}
	if root != nil {
		pushChildren(root, "")
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		connector, childPrefix := branchMid, current.prefix+indentBar
		if current.last {
			connector, childPrefix = branchLast, current.prefix+indentGap
		}

		name := current.node.Name
		if current.node.IsDir {
			name += "/"
		}
		bw.WriteString(current.prefix + connector + name + "\n")

		if current.node.IsDir {
			pushChildren(current.node, childPrefix)
		}
	}

	if note != "" {
		bw.WriteString("\n" + note + "\n")
	}
	return bw.Flush()
}
