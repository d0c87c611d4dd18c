package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wippyai/tape-runtime/engine"
	"github.com/wippyai/tape-runtime/event"
	"github.com/wippyai/tape-runtime/memory"
	"github.com/wippyai/tape-runtime/program"
)

const (
	// cells shown either side of the pointer
	tapeRadius = 6
	// instructions shown either side of the program counter
	codeRadius = 24
	// steps executed per tick while running freely
	runBatch = 2048
)

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#666666")

	base = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))

	titleStyle = base.
			Bold(true).
			Background(accent).
			Padding(0, 1)

	codeStyle = base.
			Foreground(lipgloss.Color("#98FB98"))

	cellStyle = base.
			Foreground(lipgloss.Color("#87CEEB")).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(muted)

	selectedStyle = base.
			Bold(true).
			Background(accent)

	outputStyle = base.
			Foreground(lipgloss.Color("#90EE90")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	errorStyle = base.
			Foreground(lipgloss.Color("#F25C54"))

	helpStyle = base.
			Foreground(muted).
			Italic(true)
)

type modelState int

const (
	statePaused modelState = iota
	stateRunning
	stateAwaitInput
	stateHalted
)

// runeQueue feeds the engine with runes typed into the input box.
type runeQueue struct {
	runes []rune
}

func (q *runeQueue) ReadRune() (rune, int, error) {
	if len(q.runes) == 0 {
		return 0, 0, io.EOF
	}
	r := q.runes[0]
	q.runes = q.runes[1:]
	return r, len(string(r)), nil
}

func (q *runeQueue) Read(p []byte) (int, error) {
	r, n, err := q.ReadRune()
	if err != nil {
		return 0, err
	}
	if len(p) < n {
		return 0, io.ErrShortBuffer
	}
	return copy(p, string(r)), nil
}

func (q *runeQueue) push(s string) {
	q.runes = append(q.runes, []rune(s)...)
}

type interactiveModel struct {
	err    error
	eng    *engine.Engine
	mem    *memory.Memory
	events *event.Log
	queue  *runeQueue
	out    *strings.Builder
	source string
	input  textinput.Model
	state  modelState
}

type tickMsg struct{}

func newInteractiveModel(source string, prog *program.Program, mem *memory.Memory, events *event.Log) (*interactiveModel, error) {
	queue := &runeQueue{}
	out := &strings.Builder{}
	eng, err := engine.New(prog, mem,
		engine.WithInput(queue),
		engine.WithOutput(out),
		engine.WithSink(events),
	)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Prompt = "input: "
	ti.Placeholder = "text for ',' (enter sends a newline when empty)"
	ti.Width = 48

	return &interactiveModel{
		eng:    eng,
		mem:    mem,
		events: events,
		queue:  queue,
		out:    out,
		source: source,
		input:  ti,
	}, nil
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// needsInput reports whether the next instruction reads input that has not
// been typed yet.
func (m *interactiveModel) needsInput() bool {
	tok, ok := m.eng.Program().At(m.eng.PC())
	return ok && tok.Instruction == program.Write && len(m.queue.runes) == 0
}

// step runs up to n instructions, stopping early to ask for input.
func (m *interactiveModel) step(n int) {
	for i := 0; i < n; i++ {
		if m.needsInput() {
			m.state = stateAwaitInput
			m.input.Focus()
			return
		}
		s, err := m.eng.RunOnce()
		if s != engine.StepContinue {
			m.err = err
			m.state = stateHalted
			return
		}
	}
}

func tick() tea.Msg {
	return tickMsg{}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.state == stateAwaitInput {
			switch msg.String() {
			case "enter":
				v := m.input.Value()
				if v == "" {
					v = "\n"
				}
				m.queue.push(v)
				m.input.SetValue("")
				m.input.Blur()
				m.state = statePaused
				return m, nil
			case "esc":
				m.input.Blur()
				m.state = statePaused
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s", " ", "n":
			if m.state != stateHalted {
				m.state = statePaused
				m.step(1)
			}
		case "r":
			if m.state == statePaused {
				m.state = stateRunning
				return m, tick
			}
		case "p":
			if m.state == stateRunning {
				m.state = statePaused
			}
		}

	case tickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		m.step(runBatch)
		if m.state == stateRunning {
			return m, tick
		}
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tape Stepper"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	b.WriteString(m.codeView())
	b.WriteString("\n\n")
	b.WriteString(m.tapeView())
	b.WriteString("\n\n")

	b.WriteString(outputStyle.Render(printable(m.out.String())))
	b.WriteString("\n")

	fmt.Fprintf(&b, "pc %d  steps %d  events %d ok / %d err  state %s\n",
		m.eng.PC(), m.eng.Steps(), m.events.TotalOk(), m.events.TotalErr(), m.eng.State())
	if ev, ok := m.events.LastEvent(); ok {
		if ev.IsErr() {
			b.WriteString(errorStyle.Render(ev.String()))
		} else {
			b.WriteString(ev.String())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state {
	case stateAwaitInput:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter send • esc cancel • ctrl+c quit"))
	case stateHalted:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString("Program complete.")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("q quit"))
	case stateRunning:
		b.WriteString(helpStyle.Render("p pause • q quit"))
	default:
		b.WriteString(helpStyle.Render("s/space step • r run • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) codeView() string {
	prog := m.eng.Program()
	pc := m.eng.PC()
	from := max(pc-codeRadius, 0)
	to := min(pc+codeRadius+1, prog.Len())

	var b strings.Builder
	if from > 0 {
		b.WriteString(helpStyle.Render("…"))
	}
	for i := from; i < to; i++ {
		tok, _ := prog.At(i)
		sym := string(tok.Instruction.Symbol())
		if i == pc {
			b.WriteString(selectedStyle.Render(sym))
		} else {
			b.WriteString(codeStyle.Render(sym))
		}
	}
	if pc >= prog.Len() {
		b.WriteString(selectedStyle.Render(" "))
	}
	if to < prog.Len() {
		b.WriteString(helpStyle.Render("…"))
	}
	return b.String()
}

func (m *interactiveModel) tapeView() string {
	ptr := m.mem.Pointer()
	from := max(ptr-tapeRadius, 0)
	values := m.mem.Snapshot(from, ptr+tapeRadius+1)

	labels := make([]string, len(values))
	width := 1
	for i, v := range values {
		labels[i] = cellLabel(v)
		width = max(width, runewidth.StringWidth(labels[i]))
	}

	cells := make([]string, len(values))
	for i, label := range labels {
		text := runewidth.FillLeft(label, width)
		if from+i == ptr {
			cells[i] = selectedStyle.Render(" " + text + " ")
		} else {
			cells[i] = cellStyle.Render(" " + text + " ")
		}
	}
	return fmt.Sprintf("cells %d..%d of %d\n%s",
		from, from+len(values), m.mem.Len(), lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// cellLabel shows a cell's value and, when it is printable, its character.
func cellLabel(v memory.Value) string {
	s := strconv.FormatInt(v, 10)
	if v >= 0 && v <= unicode.MaxRune && unicode.IsPrint(rune(v)) {
		s += " " + string(rune(v))
	}
	return s
}

func printable(s string) string {
	if s == "" {
		return helpStyle.Render("(no output)")
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		return '·'
	}, s)
}

func runInteractive(source string, prog *program.Program, mem *memory.Memory, events *event.Log) error {
	model, err := newInteractiveModel(source, prog, mem, events)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	return runError(final)
}

// runError returns the error that halted the program shown by the final model.
func runError(final tea.Model) error {
	m, ok := final.(*interactiveModel)
	if !ok {
		return nil
	}
	return m.eng.Err()
}
