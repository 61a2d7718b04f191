// Package tree turns a filesystem path into the nested description the view
// renders in its file browser.
package tree

import (
	"fmt"
	"path/filepath"

	"phodit/internal/fsgate"
)

// Module tags the payload for the view's tree widget.
const Module = "react-ui-tree"

// Entries that never appear in a tree.
var excludedNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
}

// Node describes one filesystem entry. A leaf never has children.
type Node struct {
	Path      string  `json:"filename"`
	Name      string  `json:"module"`
	IsLeaf    bool    `json:"leaf,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Payload is the body of the path-opened message.
type Payload struct {
	Module   string  `json:"module"`
	Children []*Node `json:"children"`
}

func NewPayload(root *Node) Payload {
	return Payload{Module: Module, Children: []*Node{root}}
}

func Excluded(name string) bool {
	return excludedNames[name]
}

type Builder struct {
	fs fsgate.FileSystem
}

func NewBuilder(fs fsgate.FileSystem) *Builder {
	return &Builder{fs: fs}
}

// Build walks path depth first. Any failure below path aborts the whole
// build; no partial tree is returned.
func (b *Builder) Build(path string) (*Node, error) {
	info, err := b.fs.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	node := &Node{
		Path: path,
		Name: filepath.Base(path),
	}

	if !info.IsDir() {
		node.IsLeaf = true
		return node, nil
	}

	entries, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	node.Collapsed = true
	node.Children = make([]*Node, 0, len(entries))
	for _, entry := range entries {
		if Excluded(entry.Name()) {
			continue
		}

		child, err := b.Build(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node *Node) int {
	if node == nil {
		return 0
	}
	count := 1
	for _, child := range node.Children {
		count += Count(child)
	}
	return count
}

// Dirs lists every branch path in the tree, root first.
func Dirs(root *Node) []string {
	var dirs []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || n.IsLeaf {
			return
		}
		dirs = append(dirs, n.Path)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return dirs
}
