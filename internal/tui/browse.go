// Package tui is the interactive search surface over a generated site's
// index. It owns keystroke timing: queries run only after input settles, and
// every keystroke bumps a generation counter so a superseded query's result
// is discarded on arrival, never displayed.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docsmith/docsmith/internal/search"
)

// State is the query session state. Any keystroke in Debouncing or Matching
// restarts the cycle; Esc returns to Idle from any state.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateMatching
	StateResults
	StateNoResults
)

type debounceElapsedMsg struct {
	gen uint64
}

type matchDoneMsg struct {
	result search.Result
}

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	matchStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("11"))
	previewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Model is the bubbletea model for interactive search.
type Model struct {
	index    *search.Index
	opts     search.Options
	debounce time.Duration

	input    textinput.Model
	state    State
	gen      uint64
	result   search.Result
	selected int

	width    int
	height   int
	quitting bool
}

// New builds the search surface over an already-built index. The index is
// immutable, so the model only ever reads it.
func New(ix *search.Index, opts search.Options, debounce time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "search symbols"
	ti.Prompt = "/ "
	ti.Focus()

	return Model{
		index:    ix,
		opts:     opts,
		debounce: debounce,
		input:    ti,
		state:    StateIdle,
		width:    80,
		height:   24,
	}
}

// State returns the current session state.
func (m Model) State() State {
	return m.state
}

// Generation returns the current query generation.
func (m Model) Generation() uint64 {
	return m.gen
}

// Result returns the most recently displayed result.
func (m Model) Result() search.Result {
	return m.result
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceElapsedMsg:
		// A newer keystroke restarted the timer; this tick is superseded.
		if msg.gen != m.gen {
			return m, nil
		}
		m.state = StateMatching
		return m, m.match(msg.gen)

	case matchDoneMsg:
		// Stale generation: a later query owns the display now.
		if msg.result.Gen != m.gen {
			return m, nil
		}
		m.result = msg.result
		m.selected = 0
		if len(m.result.Matches) == 0 {
			m.state = StateNoResults
		} else {
			m.state = StateResults
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		// Closing the search surface returns to Idle from any state.
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.gen++
		m.state = StateIdle
		m.result = search.Result{}
		m.selected = 0
		return m, nil

	case tea.KeyUp:
		if m.state == StateResults && m.selected > 0 {
			m.selected--
		}
		return m, nil

	case tea.KeyDown:
		if m.state == StateResults && m.selected < len(m.result.Matches)-1 {
			m.selected++
		}
		return m, nil

	case tea.KeyEnter:
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	// Keystroke: implicit cancellation of any pending debounce or in-flight
	// match, via the generation bump.
	m.gen++
	if strings.TrimSpace(m.input.Value()) == "" {
		m.state = StateIdle
		m.result = search.Result{}
		m.selected = 0
		return m, cmd
	}

	m.state = StateDebouncing
	gen := m.gen
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceElapsedMsg{gen: gen}
	}))
}

// match runs the query synchronously inside a tea command. The result
// carries the generation it was issued under.
func (m Model) match(gen uint64) tea.Cmd {
	query := m.input.Value()
	index := m.index
	opts := m.opts
	return func() tea.Msg {
		return matchDoneMsg{result: index.Query(query, gen, opts)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render("docsmith search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state {
	case StateIdle:
		b.WriteString(statusStyle.Render("type to search, esc to quit"))
	case StateDebouncing, StateMatching:
		b.WriteString(statusStyle.Render("searching..."))
	case StateNoResults:
		b.WriteString(statusStyle.Render(fmt.Sprintf("no results for %q", m.result.Query)))
	case StateResults:
		m.renderResults(&b)
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) renderResults(b *strings.Builder) {
	if m.result.Degraded {
		b.WriteString(degradedStyle.Render("fuzzy matching skipped for this query"))
		b.WriteString("\n")
	}

	for i, match := range m.result.Matches {
		cursor := "  "
		title := highlightSpans(match.Record.Title, match.TitleSpans)
		if i == m.selected {
			cursor = "> "
			title = selectedStyle.Render(match.Record.Title)
		}

		b.WriteString(cursor)
		b.WriteString(kindStyle.Render(string(match.Record.Kind)))
		b.WriteString(title)
		if match.Record.Module != "" {
			b.WriteString(previewStyle.Render("  " + match.Record.Module))
		}
		b.WriteString("\n")

		if i == m.selected && match.Record.Preview != "" {
			preview := match.Record.Preview
			if len(match.PreviewSpans) > 0 {
				preview = highlightSpans(preview, match.PreviewSpans)
			}
			b.WriteString("    " + previewStyle.Render(preview) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%d results", len(m.result.Matches))))
}

// highlightSpans styles the matched byte ranges within s.
func highlightSpans(s string, spans []search.Span) string {
	if len(spans) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.Start < last || sp.End > len(s) {
			continue
		}
		b.WriteString(s[last:sp.Start])
		b.WriteString(matchStyle.Render(s[sp.Start:sp.End]))
		last = sp.End
	}
	b.WriteString(s[last:])
	return b.String()
}
