package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"semdex/internal/embedder"
	"semdex/internal/search"
	"semdex/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	resultLimit   = 10
	searchTimeout = 2 * time.Minute
)

// resultsMsg is sent when a search completes.
type resultsMsg struct {
	query   string
	results []search.Result
	err     error
}

// Model is the single-screen search TUI.
type Model struct {
	searcher  *search.Searcher
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	searching bool
	status    string
	width     int
	height    int
	ready     bool
}

// New creates the TUI model over an opened store and embedder.
func New(st store.Store, emb embedder.Embedder) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	ti := textinput.New()
	ti.Placeholder = "Search your codebase..."
	ti.CharLimit = 2000
	ti.Focus()

	return Model{
		searcher: search.New(st, emb),
		input:    ti,
		spinner:  sp,
		status:   "Type a query and press Enter.",
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Layout: title + input + status take three lines.
		vpHeight := msg.Height - 3
		if vpHeight < 5 {
			vpHeight = 5
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.viewport.SetContent(dimStyle.Render("No results yet."))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4

		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-2),
		); err == nil {
			m.renderer = r
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query != "" && !m.searching {
				m.searching = true
				m.status = "Searching..."
				return m, tea.Batch(m.spinner.Tick, runSearch(m.searcher, query))
			}
			return m, nil
		case "up", "down", "pgup", "pgdown":
			// Scroll keys go to the viewport; everything else is typing.
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case resultsMsg:
		m.searching = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			return m, nil
		}
		m.status = fmt.Sprintf("%d results for %q — ↑/↓ to scroll, esc to quit", len(msg.results), msg.query)
		m.viewport.SetContent(m.renderResults(msg.query, msg.results))
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.searching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := titleStyle.Render("semdex")
	status := m.status
	if m.searching {
		status = m.spinner.View() + " " + status
	}

	return title + "\n" +
		m.viewport.View() + "\n" +
		m.input.View() + "\n" +
		statusBarStyle.Render(status)
}

func (m Model) renderResults(query string, results []search.Result) string {
	if len(results) == 0 {
		return dimStyle.Render(fmt.Sprintf("No results for %q.", query))
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "### %d. `%s` — %.3f\n\n", i+1, r.FilePath, r.Score)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", r.Content)
	}

	if m.renderer != nil {
		if out, err := m.renderer.Render(sb.String()); err == nil {
			return out
		}
	}
	return sb.String()
}

func runSearch(s *search.Searcher, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		results, err := s.Search(ctx, query, resultLimit)
		return resultsMsg{query: query, results: results, err: err}
	}
}

// Run starts the TUI program.
func Run(st store.Store, emb embedder.Embedder) error {
	p := tea.NewProgram(New(st, emb), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
