package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/valuestore/layout"
	"github.com/wippyai/valuestore/stream"
	"github.com/wippyai/valuestore/value"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#87CEEB"))
)

// row is one line of the layout table.
type row struct {
	path   string
	kind   string
	offset string
	size   uint32
	align  uint32
}

func rows(l layout.Layout) []row {
	var out []row
	layout.Walk(l, func(e layout.Entry) bool {
		path := e.Path
		if path == "" {
			path = "."
		}
		offset := strconv.FormatUint(uint64(e.Offset), 10)
		if e.Indirect > 0 {
			// relative to the element start inside the array heap segment
			offset = "+" + offset
		}
		out = append(out, row{
			path:   strings.Repeat("  ", e.Depth) + path,
			kind:   describeLayout(e.Layout),
			offset: offset,
			size:   layout.SizeOf(e.Layout),
			align:  layout.AlignOf(e.Layout),
		})
		return true
	})
	return out
}

// describeLayout names composites by kind only; their members get rows.
func describeLayout(l layout.Layout) string {
	switch x := l.(type) {
	case layout.Object, layout.Tuple:
		return x.Kind().String()
	case layout.Variant:
		if d, ok := x.Discriminant(); ok {
			return fmt.Sprintf("variant[%s] tag %d", d, x.TagSize())
		}
		return fmt.Sprintf("variant tag %d", x.TagSize())
	default:
		return l.String()
	}
}

func renderTable(l layout.Layout, styled bool) string {
	t := table.New().Headers("PATH", "KIND", "OFFSET", "SIZE", "ALIGN")
	for _, r := range rows(l) {
		t.Row(r.path, r.kind, r.offset, strconv.Itoa(int(r.size)), strconv.Itoa(int(r.align)))
	}
	if !styled {
		return t.Border(lipgloss.ASCIIBorder()).String()
	}
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case c == 0:
				return pathStyle
			case c == 1:
				return kindStyle
			default:
				return cellStyle
			}
		}).
		String()
}

// renderValue encodes the value under v as a tree.
func renderValue(v *value.View) (string, error) {
	n, err := stream.ToTree(v)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// defaultValue renders the default value of l.
func defaultValue(l layout.Layout, opts value.Options) (string, error) {
	h := value.NewWithOptions(l, opts)
	defer h.Release()
	v := h.Root().View()
	defer v.Close()
	return renderValue(v)
}
