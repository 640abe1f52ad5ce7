package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Node is one match of a rule against a span of input. A leaf node is the
// match of a terminal and carries the consumed text in Raw; an internal
// node is the match of a non-terminal rule and carries its sub-matches in
// Children. The concatenation of the leaves under a node, in order, is
// exactly the input the node consumed.
type Node struct {
	Type     string
	Raw      string
	Children []*Node
}

func newLeaf(typ, raw string) *Node {
	return &Node{
		Type: typ,
		Raw:  raw,
	}
}

func newNode(typ string, children []*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{
		Type:     typ,
		Children: children,
	}
}

// Leaf reports whether the node is a terminal match. Internal nodes always
// have a non-nil child slice, even when the match consumed nothing.
func (n *Node) Leaf() bool {
	return n.Children == nil
}

// Text returns the input consumed by the node: Raw for a leaf, the
// concatenation of the children's text otherwise.
func (n *Node) Text() string {
	if n.Leaf() {
		return n.Raw
	}
	var text string
	for _, c := range n.Children {
		text += c.Text()
	}
	return text
}

// Bubble returns a tree in which every internal node with exactly one child
// has been replaced by that child, recursively. Leaves are never altered.
// The rewrite is pure and idempotent; the receiver tree is left untouched.
func Bubble(n *Node) *Node {
	if n.Leaf() {
		return n
	}
	children := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = Bubble(c)
	}
	if len(children) == 1 {
		return children[0]
	}
	return newNode(n.Type, children)
}

// The serialized shape is a contract: {"type": ..., "raw": ...} for leaves
// and {"type": ..., "children": [...]} for internal nodes, nothing else.

func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Leaf() {
		return json.Marshal(struct {
			Type string `json:"type"`
			Raw  string `json:"raw"`
		}{
			Type: n.Type,
			Raw:  n.Raw,
		})
	}
	return json.Marshal(struct {
		Type     string  `json:"type"`
		Children []*Node `json:"children"`
	}{
		Type:     n.Type,
		Children: n.Children,
	})
}

func (n *Node) MarshalYAML() (interface{}, error) {
	typeKey := &yaml.Node{Kind: yaml.ScalarNode, Value: "type"}
	typeVal := &yaml.Node{Kind: yaml.ScalarNode, Value: n.Type}
	if n.Leaf() {
		return &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				typeKey,
				typeVal,
				{Kind: yaml.ScalarNode, Value: "raw"},
				{Kind: yaml.ScalarNode, Value: n.Raw},
			},
		}, nil
	}
	children := &yaml.Node{
		Kind: yaml.SequenceNode,
	}
	for _, c := range n.Children {
		child, err := c.MarshalYAML()
		if err != nil {
			return nil, err
		}
		children.Content = append(children.Content, child.(*yaml.Node))
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			typeKey,
			typeVal,
			{Kind: yaml.ScalarNode, Value: "children"},
			children,
		},
	}, nil
}

// PrintTree writes a tree in a human-readable form for debugging.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Leaf() {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.Type, node.Raw)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.Type)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
