package workspace

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type EnvTreeNode struct {
	Name     string
	Children []*EnvTreeNode
	File     string // relative path for files, empty for directories
}

func (n *EnvTreeNode) IsFile() bool {
	return n.File != ""
}

// BuildEnvTree arranges slash-separated relative paths into a tree rooted
// at ".".
func BuildEnvTree(paths []string) *EnvTreeNode {
	root := &EnvTreeNode{Name: "."}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			cur = cur.child(dir)
		}
		cur.Children = append(cur.Children, &EnvTreeNode{Name: parts[len(parts)-1], File: p})
	}

	root.sort()
	return root
}

func (n *EnvTreeNode) child(name string) *EnvTreeNode {
	for _, ch := range n.Children {
		if ch.Name == name && !ch.IsFile() {
			return ch
		}
	}
	ch := &EnvTreeNode{Name: name}
	n.Children = append(n.Children, ch)
	return ch
}

// Files sort before directories, each group by name.
func (n *EnvTreeNode) sort() {
	sort.Slice(n.Children, func(i, j int) bool {
		ci, cj := n.Children[i], n.Children[j]
		if ci.IsFile() != cj.IsFile() {
			return ci.IsFile()
		}
		return ci.Name < cj.Name
	})
	for _, ch := range n.Children {
		ch.sort()
	}
}

// PrintEnvTree writes node's descendants to w, one per line, with box
// drawing connectors. The root itself is not printed.
func PrintEnvTree(w io.Writer, node *EnvTreeNode) error {
	return printChildren(w, node, "")
}

func printChildren(w io.Writer, node *EnvTreeNode, prefix string) error {
	for i, ch := range node.Children {
		last := i == len(node.Children)-1
		conn, indent := "├─ ", "│  "
		if last {
			conn, indent = "└─ ", "   "
		}
		name := ch.Name
		if !ch.IsFile() {
			name += "/"
		}
		if _, err := fmt.Fprintln(w, prefix+conn+name); err != nil {
			return err
		}
		if err := printChildren(w, ch, prefix+indent); err != nil {
			return err
		}
	}
	return nil
}
