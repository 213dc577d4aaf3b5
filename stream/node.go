package stream

import (
	"strconv"
	"strings"
)

// NodeKind identifies the shape of a Node.
type NodeKind uint8

const (
	NodeObject NodeKind = iota
	NodeArray
	NodeString
	NodeBool
	NodeInt
	NodeUint
	NodeFloat
	NodeEnum
	NodeVariant
)

// Node is one element of an in-memory stream tree. Objects keep their keys
// in insertion order.
type Node struct {
	Keys   []string
	Values []*Node
	Str    string
	Int    int64
	Uint   uint64
	Float  float64
	Kind   NodeKind
	Bool   bool
}

func ObjectNode() *Node              { return &Node{Kind: NodeObject} }
func ArrayNode(elems ...*Node) *Node { return &Node{Kind: NodeArray, Values: elems} }
func StringNode(s string) *Node      { return &Node{Kind: NodeString, Str: s} }
func BoolNode(b bool) *Node          { return &Node{Kind: NodeBool, Bool: b} }
func IntNode(i int64) *Node          { return &Node{Kind: NodeInt, Int: i} }
func UintNode(u uint64) *Node        { return &Node{Kind: NodeUint, Uint: u} }
func FloatNode(f float64) *Node      { return &Node{Kind: NodeFloat, Float: f} }
func EnumNode(name string) *Node     { return &Node{Kind: NodeEnum, Str: name} }
func VariantNode(name string) *Node  { return &Node{Kind: NodeVariant, Str: name} }

// Set appends key to an object node, replacing an existing value. It returns
// n for chaining.
func (n *Node) Set(key string, v *Node) *Node {
	for i, k := range n.Keys {
		if k == key {
			n.Values[i] = v
			return n
		}
	}
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, v)
	return n
}

// Get returns the value of key in an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i], true
		}
	}
	return nil, false
}

// String renders n in a compact JSON-like notation. Enums render as #name
// and variant names as @name.
func (n *Node) String() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("null")
		return
	}
	switch n.Kind {
	case NodeObject:
		sb.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			n.Values[i].render(sb)
		}
		sb.WriteByte('}')
	case NodeArray:
		sb.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			v.render(sb)
		}
		sb.WriteByte(']')
	case NodeString:
		sb.WriteString(strconv.Quote(n.Str))
	case NodeBool:
		sb.WriteString(strconv.FormatBool(n.Bool))
	case NodeInt:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case NodeUint:
		sb.WriteString(strconv.FormatUint(n.Uint, 10))
	case NodeFloat:
		sb.WriteString(strconv.FormatFloat(n.Float, 'g', -1, 64))
	case NodeEnum:
		sb.WriteByte('#')
		sb.WriteString(n.Str)
	case NodeVariant:
		sb.WriteByte('@')
		sb.WriteString(n.Str)
	}
}
