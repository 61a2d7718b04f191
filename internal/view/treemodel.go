package view

import (
	"phodit/internal/tree"
)

// TreeModel indexes a directory tree by path so widget.Tree can address
// nodes through its string IDs. The widget's root ID is the empty string.
type TreeModel struct {
	roots []string
	nodes map[string]*tree.Node
}

func NewTreeModel() *TreeModel {
	return &TreeModel{nodes: make(map[string]*tree.Node)}
}

func (m *TreeModel) Set(payload tree.Payload) {
	m.roots = nil
	m.nodes = make(map[string]*tree.Node)

	for _, root := range payload.Children {
		if root == nil {
			continue
		}
		m.roots = append(m.roots, root.Path)
		m.index(root)
	}
}

func (m *TreeModel) index(node *tree.Node) {
	m.nodes[node.Path] = node
	for _, child := range node.Children {
		m.index(child)
	}
}

func (m *TreeModel) Clear() {
	m.Set(tree.Payload{})
}

func (m *TreeModel) ChildUIDs(uid string) []string {
	if uid == "" {
		return m.roots
	}
	node, ok := m.nodes[uid]
	if !ok {
		return nil
	}
	ids := make([]string, len(node.Children))
	for i, child := range node.Children {
		ids[i] = child.Path
	}
	return ids
}

func (m *TreeModel) IsBranch(uid string) bool {
	if uid == "" {
		return true
	}
	node, ok := m.nodes[uid]
	return ok && !node.IsLeaf
}

func (m *TreeModel) Node(uid string) *tree.Node {
	return m.nodes[uid]
}

func (m *TreeModel) Len() int {
	return len(m.nodes)
}
