package stream

import (
	"fmt"
	"math"

	"github.com/wippyai/valuestore/errors"
)

func invalid(format string, args ...any) error {
	return errors.New(errors.PhaseStream, errors.KindInvalidType).Detail(format, args...).Build()
}

// TreeWriter is a Writer that builds a Node tree.
type TreeWriter struct {
	root  *Node
	stack []writeFrame
}

type writeFrame struct {
	node   *Node
	key    string
	length int
	keyed  bool
}

var _ Writer = (*TreeWriter)(nil)

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

// Root returns the finished tree, nil until a complete value was written.
func (w *TreeWriter) Root() *Node {
	if len(w.stack) > 0 {
		return nil
	}
	return w.root
}

func (w *TreeWriter) emit(n *Node) error {
	if len(w.stack) == 0 {
		if w.root != nil {
			return invalid("second root value")
		}
		w.root = n
		return nil
	}
	top := &w.stack[len(w.stack)-1]
	switch top.node.Kind {
	case NodeObject:
		if !top.keyed {
			return invalid("object value without key")
		}
		top.node.Set(top.key, n)
		top.keyed = false
	case NodeArray:
		if len(top.node.Values) == top.length {
			return errors.New(errors.PhaseStream, errors.KindArrayLengthMismatch).
				Detail("more than %d elements", top.length).Build()
		}
		top.node.Values = append(top.node.Values, n)
	}
	return nil
}

func (w *TreeWriter) open(n *Node, length int) error {
	if err := w.emit(n); err != nil {
		return err
	}
	w.stack = append(w.stack, writeFrame{node: n, length: length})
	return nil
}

func (w *TreeWriter) close(kind NodeKind) (writeFrame, error) {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].node.Kind != kind {
		return writeFrame{}, invalid("unbalanced end")
	}
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return top, nil
}

func (w *TreeWriter) BeginObject() error {
	return w.open(ObjectNode(), 0)
}

func (w *TreeWriter) WriteKey(key string) error {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].node.Kind != NodeObject {
		return invalid("key %q outside an object", key)
	}
	top := &w.stack[len(w.stack)-1]
	if top.keyed {
		return invalid("key %q follows key %q", key, top.key)
	}
	top.key, top.keyed = key, true
	return nil
}

func (w *TreeWriter) EndObject() error {
	top, err := w.close(NodeObject)
	if err == nil && top.keyed {
		return invalid("key %q has no value", top.key)
	}
	return err
}

func (w *TreeWriter) BeginArray(length int) error {
	return w.open(&Node{Kind: NodeArray, Values: make([]*Node, 0, length)}, length)
}

func (w *TreeWriter) EndArray() error {
	top, err := w.close(NodeArray)
	if err != nil {
		return err
	}
	if len(top.node.Values) != top.length {
		return errors.New(errors.PhaseStream, errors.KindArrayLengthMismatch).
			Detail("declared %d elements, wrote %d", top.length, len(top.node.Values)).Build()
	}
	return nil
}

func (w *TreeWriter) WriteString(v string) error   { return w.emit(StringNode(v)) }
func (w *TreeWriter) WriteBool(v bool) error       { return w.emit(BoolNode(v)) }
func (w *TreeWriter) WriteInt8(v int8) error       { return w.emit(IntNode(int64(v))) }
func (w *TreeWriter) WriteUint8(v uint8) error     { return w.emit(UintNode(uint64(v))) }
func (w *TreeWriter) WriteInt16(v int16) error     { return w.emit(IntNode(int64(v))) }
func (w *TreeWriter) WriteUint16(v uint16) error   { return w.emit(UintNode(uint64(v))) }
func (w *TreeWriter) WriteInt32(v int32) error     { return w.emit(IntNode(int64(v))) }
func (w *TreeWriter) WriteUint32(v uint32) error   { return w.emit(UintNode(uint64(v))) }
func (w *TreeWriter) WriteInt64(v int64) error     { return w.emit(IntNode(v)) }
func (w *TreeWriter) WriteUint64(v uint64) error   { return w.emit(UintNode(v)) }
func (w *TreeWriter) WriteFloat32(v float32) error { return w.emit(FloatNode(float64(v))) }
func (w *TreeWriter) WriteFloat64(v float64) error { return w.emit(FloatNode(v)) }
func (w *TreeWriter) WriteEnum(name string) error  { return w.emit(EnumNode(name)) }

func (w *TreeWriter) WriteVariant(name string) error {
	return w.emit(VariantNode(name))
}

// TreeReader is a Reader over a Node tree.
type TreeReader struct {
	root  *Node
	stack []readFrame
}

type readFrame struct {
	node *Node
	next *Node
	pos  int
}

var _ Reader = (*TreeReader)(nil)

func NewTreeReader(root *Node) *TreeReader {
	return &TreeReader{root: root}
}

// take consumes the node at the current position.
func (r *TreeReader) take() (*Node, error) {
	if len(r.stack) == 0 {
		n := r.root
		if n == nil {
			return nil, invalid("no value to read")
		}
		r.root = nil
		return n, nil
	}
	top := &r.stack[len(r.stack)-1]
	n := top.next
	if n == nil {
		if top.node.Kind == NodeObject {
			return nil, invalid("object read without key")
		}
		return nil, errors.New(errors.PhaseStream, errors.KindArrayLengthMismatch).
			Detail("read past %d elements", len(top.node.Values)).Build()
	}
	top.next = nil
	if top.node.Kind == NodeArray {
		top.pos++
		if top.pos < len(top.node.Values) {
			top.next = top.node.Values[top.pos]
		}
	}
	return n, nil
}

func (r *TreeReader) takeKind(kind NodeKind) (*Node, error) {
	n, err := r.take()
	if err != nil {
		return nil, err
	}
	if n.Kind != kind {
		return nil, invalid("expected %s, found %s", kindName(kind), kindName(n.Kind))
	}
	return n, nil
}

func (r *TreeReader) top(kind NodeKind) (*readFrame, error) {
	if len(r.stack) == 0 || r.stack[len(r.stack)-1].node.Kind != kind {
		return nil, invalid("not inside %s", kindName(kind))
	}
	return &r.stack[len(r.stack)-1], nil
}

func (r *TreeReader) BeginObject() error {
	n, err := r.takeKind(NodeObject)
	if err != nil {
		return err
	}
	r.stack = append(r.stack, readFrame{node: n})
	return nil
}

func (r *TreeReader) ReadKey(key string) error {
	top, err := r.top(NodeObject)
	if err != nil {
		return err
	}
	v, ok := top.node.Get(key)
	if !ok {
		return errors.New(errors.PhaseStream, errors.KindKeyNotExists).Detail("key %q", key).Build()
	}
	top.next = v
	return nil
}

func (r *TreeReader) EndObject() error {
	if _, err := r.top(NodeObject); err != nil {
		return err
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

func (r *TreeReader) BeginArray() error {
	n, err := r.takeKind(NodeArray)
	if err != nil {
		return err
	}
	f := readFrame{node: n}
	if len(n.Values) > 0 {
		f.next = n.Values[0]
	}
	r.stack = append(r.stack, f)
	return nil
}

func (r *TreeReader) ArrayLength() (int, error) {
	top, err := r.top(NodeArray)
	if err != nil {
		return 0, err
	}
	return len(top.node.Values), nil
}

func (r *TreeReader) EndArray() error {
	if _, err := r.top(NodeArray); err != nil {
		return err
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

func (r *TreeReader) ReadString() (string, error) {
	n, err := r.takeKind(NodeString)
	if err != nil {
		return "", err
	}
	return n.Str, nil
}

func (r *TreeReader) ReadBool() (bool, error) {
	n, err := r.takeKind(NodeBool)
	if err != nil {
		return false, err
	}
	return n.Bool, nil
}

// readInt reads an integer node that fits [lo, hi].
func (r *TreeReader) readInt(lo, hi int64) (int64, error) {
	n, err := r.take()
	if err != nil {
		return 0, err
	}
	switch n.Kind {
	case NodeInt:
		if n.Int >= lo && n.Int <= hi {
			return n.Int, nil
		}
	case NodeUint:
		if n.Uint <= uint64(hi) {
			return int64(n.Uint), nil
		}
	default:
		return 0, invalid("expected integer, found %s", kindName(n.Kind))
	}
	return 0, invalid("%s out of range [%d, %d]", n, lo, hi)
}

// readUint reads a non-negative integer node that fits [0, hi].
func (r *TreeReader) readUint(hi uint64) (uint64, error) {
	n, err := r.take()
	if err != nil {
		return 0, err
	}
	switch n.Kind {
	case NodeUint:
		if n.Uint <= hi {
			return n.Uint, nil
		}
	case NodeInt:
		if n.Int >= 0 && uint64(n.Int) <= hi {
			return uint64(n.Int), nil
		}
	default:
		return 0, invalid("expected integer, found %s", kindName(n.Kind))
	}
	return 0, invalid("%s out of range [0, %d]", n, hi)
}

func (r *TreeReader) ReadInt8() (int8, error) {
	v, err := r.readInt(math.MinInt8, math.MaxInt8)
	return int8(v), err
}

func (r *TreeReader) ReadUint8() (uint8, error) {
	v, err := r.readUint(math.MaxUint8)
	return uint8(v), err
}

func (r *TreeReader) ReadInt16() (int16, error) {
	v, err := r.readInt(math.MinInt16, math.MaxInt16)
	return int16(v), err
}

func (r *TreeReader) ReadUint16() (uint16, error) {
	v, err := r.readUint(math.MaxUint16)
	return uint16(v), err
}

func (r *TreeReader) ReadInt32() (int32, error) {
	v, err := r.readInt(math.MinInt32, math.MaxInt32)
	return int32(v), err
}

func (r *TreeReader) ReadUint32() (uint32, error) {
	v, err := r.readUint(math.MaxUint32)
	return uint32(v), err
}

func (r *TreeReader) ReadInt64() (int64, error) {
	return r.readInt(math.MinInt64, math.MaxInt64)
}

func (r *TreeReader) ReadUint64() (uint64, error) {
	return r.readUint(math.MaxUint64)
}

func (r *TreeReader) ReadFloat32() (float32, error) {
	v, err := r.ReadFloat64()
	return float32(v), err
}

func (r *TreeReader) ReadFloat64() (float64, error) {
	n, err := r.take()
	if err != nil {
		return 0, err
	}
	switch n.Kind {
	case NodeFloat:
		return n.Float, nil
	case NodeInt:
		return float64(n.Int), nil
	case NodeUint:
		return float64(n.Uint), nil
	}
	return 0, invalid("expected number, found %s", kindName(n.Kind))
}

func (r *TreeReader) ReadEnum() (string, error) {
	n, err := r.take()
	if err != nil {
		return "", err
	}
	if n.Kind != NodeEnum && n.Kind != NodeString {
		return "", invalid("expected enum, found %s", kindName(n.Kind))
	}
	return n.Str, nil
}

func (r *TreeReader) ReadVariant() (string, error) {
	if len(r.stack) > 0 {
		top := &r.stack[len(r.stack)-1]
		if top.node.Kind == NodeObject && top.next == nil {
			if len(top.node.Keys) != 1 {
				return "", invalid("variant object with %d keys", len(top.node.Keys))
			}
			top.next = top.node.Values[0]
			return top.node.Keys[0], nil
		}
	}
	n, err := r.take()
	if err != nil {
		return "", err
	}
	if n.Kind != NodeVariant && n.Kind != NodeString {
		return "", invalid("expected variant name, found %s", kindName(n.Kind))
	}
	return n.Str, nil
}

func kindName(k NodeKind) string {
	switch k {
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeString:
		return "string"
	case NodeBool:
		return "bool"
	case NodeInt, NodeUint:
		return "integer"
	case NodeFloat:
		return "float"
	case NodeEnum:
		return "enum"
	case NodeVariant:
		return "variant"
	}
	return fmt.Sprintf("node(%d)", k)
}
