package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/valuestore/errors"
	"github.com/wippyai/valuestore/layout"
	"github.com/wippyai/valuestore/stream"
	"github.com/wippyai/valuestore/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHeld bounds the reference history shown in the explorer.
const maxHeld = 8

type heldRef struct {
	path string
	ref  value.Reference
}

type interactiveModel struct {
	err    error
	handle value.Handle
	expr   string
	output string
	held   []heldRef
	input  textinput.Model
}

func newInteractiveModel(expr string, l layout.Layout, opts value.Options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "path | push <path> | set <path> <value>"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		handle: value.NewWithOptions(l, opts),
		expr:   expr,
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.handle.Release()
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "q" || line == "quit" {
				m.handle.Release()
				return m, tea.Quit
			}
			m.output, m.err = m.exec(line)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exec runs one explorer command against the value.
func (m *interactiveModel) exec(line string) (string, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "push":
		return m.push(rest)
	case "set":
		path, raw, _ := strings.Cut(rest, " ")
		return m.set(path, strings.TrimSpace(raw))
	}
	return m.resolve(line)
}

func (m *interactiveModel) resolve(path string) (string, error) {
	ref, ok := m.handle.Root().Resolve(path)
	if !ok {
		return "", errors.FieldUnknown(errors.PhaseValue, nil, path)
	}
	m.hold(path, ref)

	v := ref.View()
	defer v.Close()
	rendered, err := renderValue(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s @%d  %s", typeStyle.Render(ref.Layout().String()), ref.Offset(), rendered), nil
}

func (m *interactiveModel) push(path string) (string, error) {
	v := m.handle.Root().ViewMut()
	defer v.Close()
	target, ok := v.Resolve(path)
	if !ok {
		return "", errors.FieldUnknown(errors.PhaseValue, nil, path)
	}
	if _, ok := target.Push(); !ok {
		return "", errors.TypeMismatch(errors.PhaseValue, []string{path}, "array", target.Layout().String())
	}
	n, _ := target.Len()
	c, _ := target.Cap()
	return fmt.Sprintf("pushed into %s: len %d, cap %d, generation %d", path, n, c, m.handle.Generation()), nil
}

func (m *interactiveModel) set(path, raw string) (string, error) {
	v := m.handle.Root().ViewMut()
	defer v.Close()
	target, ok := v.Resolve(path)
	if !ok {
		return "", errors.FieldUnknown(errors.PhaseValue, nil, path)
	}
	if _, ok := target.Layout().(layout.Variant); ok {
		if _, ok := target.SetVariant(raw); !ok {
			return "", errors.FieldUnknown(errors.PhaseValue, []string{path}, raw)
		}
		return fmt.Sprintf("%s switched to %s", path, raw), nil
	}
	n, err := literal(target.Layout(), raw)
	if err != nil {
		return "", err
	}
	if err := stream.FromTree(n, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", path, n), nil
}

// literal reads raw as a stream node suited to l.
func literal(l layout.Layout, raw string) (*stream.Node, error) {
	var (
		n   *stream.Node
		err error
	)
	switch {
	case l == layout.String:
		return stream.StringNode(strings.Trim(raw, `"`)), nil
	case l.Kind() == layout.KindEnum:
		return stream.EnumNode(raw), nil
	case l == layout.Bool:
		var b bool
		b, err = strconv.ParseBool(raw)
		n = stream.BoolNode(b)
	case l.Kind().IsFloating():
		var f float64
		f, err = strconv.ParseFloat(raw, 64)
		n = stream.FloatNode(f)
	case l.Kind().IsSigned():
		var i int64
		i, err = strconv.ParseInt(raw, 10, 64)
		n = stream.IntNode(i)
	case l.Kind().IsIntegral():
		var u uint64
		u, err = strconv.ParseUint(raw, 10, 64)
		n = stream.UintNode(u)
	default:
		return nil, errors.TypeMismatch(errors.PhaseValue, nil, "text", l.String())
	}
	if err != nil {
		return nil, errors.ParseFailed(l.String()+" literal", err)
	}
	return n, nil
}

func (m *interactiveModel) hold(path string, ref value.Reference) {
	m.held = append(m.held, heldRef{path: path, ref: ref})
	if len(m.held) > maxHeld {
		m.held = m.held[len(m.held)-maxHeld:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Layout Explorer"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.expr))
	b.WriteString("\n\n")

	v := m.handle.Root().View()
	if rendered, err := renderValue(v); err == nil {
		b.WriteString(rendered)
	}
	v.Close()
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(staleStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(m.output)
	}
	b.WriteString("\n\n")

	if len(m.held) > 0 {
		b.WriteString("References:\n")
		for _, h := range m.held {
			state := liveStyle.Render("live")
			if !h.ref.IsValid() {
				state = staleStyle.Render("stale")
			}
			fmt.Fprintf(&b, "  %-24s gen %-4d %s\n", h.path, h.ref.Generation(), state)
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter run • push <path> • set <path> <value> • esc quit"))
	return b.String()
}

func runInteractive(expr string, l layout.Layout, opts value.Options) error {
	p := tea.NewProgram(newInteractiveModel(expr, l, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
