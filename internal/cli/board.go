package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/prepdesk/internal/cli/formatter"
	"github.com/alexanderramin/prepdesk/internal/contract"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App, ref func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive note board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app, ref())
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBoardModel(cmd.Context(), app, sess),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type boardMode int

const (
	modeNotes boardMode = iota
	modeInput
	modeSearch
	modeResults
)

// inputPurpose says what the text input commits to when enter is pressed.
type inputPurpose int

const (
	inputAddNote inputPurpose = iota
	inputRenameNote
	inputAddItem
)

// searchDebounceMsg fires once the user stops typing a query.
type searchDebounceMsg struct {
	seq uint64
	req contract.SearchRequest
}

type searchResultMsg struct {
	seq     uint64
	results []contract.SearchResult
	err     error
}

type boardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Select   key.Binding
	Add      key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Capture  key.Binding
	Search   key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "activate")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add note")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Capture:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "add item")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Select, k.Add, k.Rename, k.Delete, k.Capture, k.Search, k.Save, k.Quit}
}

// boardModel edits one session. Changes stay in memory until the user saves.
type boardModel struct {
	ctx  context.Context
	app  *App
	sess *workspace.Session
	keys boardKeyMap

	mode    boardMode
	cursor  int
	input   textinput.Model
	purpose inputPurpose

	status      string
	err         error
	confirmQuit bool

	tracker      search.Tracker
	query        textinput.Model
	searching    bool
	searchErr    error
	results      []contract.SearchResult
	resultCursor int

	width int
}

func newBoardModel(ctx context.Context, app *App, sess *workspace.Session) *boardModel {
	in := textinput.New()
	in.CharLimit = 200
	q := textinput.New()
	q.Prompt = "/ "
	q.Placeholder = "search episodes"

	m := &boardModel{ctx: ctx, app: app, sess: sess, keys: defaultBoardKeys(), input: in, query: q}
	if id, ok := sess.Selection().ID(); ok {
		m.cursor = max(sess.Document().NoteIndex(id), 0)
	}
	return m
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case searchDebounceMsg:
		if !m.tracker.Current(msg.seq) {
			return m, nil
		}
		m.searching = true
		return m, m.runSearch(msg.seq, msg.req)

	case searchResultMsg:
		if !m.tracker.Current(msg.seq) {
			return m, nil
		}
		m.searching = false
		m.searchErr = msg.err
		if msg.err == nil {
			m.results = msg.results
			m.resultCursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeResults:
			return m.updateResults(msg)
		default:
			return m.updateNotes(msg)
		}
	}
	return m, nil
}

func (m *boardModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}
	doc := m.sess.Document()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "ctrl+c" || !m.sess.Dirty() || m.confirmQuit {
			return m, tea.Quit
		}
		m.confirmQuit = true
		m.setStatus("Unsaved changes. Press q again to discard or s to save.")

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(doc.Notes)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.moveNote(doc, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveNote(doc, 1)

	case key.Matches(msg, m.keys.Select):
		if note, ok := m.noteAtCursor(doc); ok {
			m.fail(m.sess.Select(note.ID))
		}

	case key.Matches(msg, m.keys.Add):
		return m, m.openInput(inputAddNote, "New note: ", "")
	case key.Matches(msg, m.keys.Rename):
		if note, ok := m.noteAtCursor(doc); ok {
			return m, m.openInput(inputRenameNote, "Rename: ", note.Title)
		}
	case key.Matches(msg, m.keys.Capture):
		return m, m.openInput(inputAddItem, "Item: ", "")

	case key.Matches(msg, m.keys.Delete):
		if note, ok := m.noteAtCursor(doc); ok {
			if _, err := m.sess.Apply(workspace.DeleteNoteOp{NoteID: note.ID}); m.fail(err) {
				m.cursor = min(m.cursor, len(m.sess.Document().Notes)-1)
				m.cursor = max(m.cursor, 0)
				m.setStatus("Deleted " + note.Title)
			}
		}

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Search):
		if m.app.Search == nil {
			m.err = errSearchDisabled
			return m, nil
		}
		m.mode = modeSearch
		return m, m.query.Focus()
	}
	return m, nil
}

func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		m.commitInput(m.input.Value())
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveSearch()
		return m, nil
	case tea.KeyEnter, tea.KeyDown:
		if len(m.results) > 0 {
			m.mode = modeResults
			m.query.Blur()
		}
		return m, nil
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() == before {
		return m, cmd
	}

	req := contract.NewSearchRequest(strings.TrimSpace(m.query.Value()))
	seq := m.tracker.Next()
	debounce := tea.Tick(m.app.SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, req: req}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m *boardModel) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.leaveSearch()
	case msg.String() == "/":
		m.mode = modeSearch
		return m, m.query.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.resultCursor > 0 {
			m.resultCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.resultCursor < len(m.results)-1 {
			m.resultCursor++
		}
	case msg.String() == "c", msg.Type == tea.KeyEnter:
		if m.resultCursor < len(m.results) {
			m.captureResult(m.results[m.resultCursor])
		}
	}
	return m, nil
}

func (m *boardModel) runSearch(seq uint64, req contract.SearchRequest) tea.Cmd {
	client, ctx := m.app.Search, m.ctx
	return func() tea.Msg {
		results, err := client.Search(ctx, req)
		return searchResultMsg{seq: seq, results: results, err: err}
	}
}

// leaveSearch returns to the note list. Any response still in flight is
// superseded and will be dropped.
func (m *boardModel) leaveSearch() {
	m.tracker.Next()
	m.searching = false
	m.query.Blur()
	m.mode = modeNotes
}

// captureResult adds an episode to the active note as a web item.
func (m *boardModel) captureResult(r contract.SearchResult) {
	eff, err := m.sess.AddItem(workspace.ActiveNote, episodeItem(r.Episode))
	if !m.fail(err) {
		return
	}
	doc := m.sess.Document()
	idx := doc.NoteIndex(eff.NoteID)
	m.cursor = idx
	m.setStatus("Captured into " + doc.Notes[idx].Title)
}

func episodeItem(ep contract.Episode) domain.Item {
	title := strings.TrimSpace(search.PlainText(ep.Title))
	content := strings.TrimSpace(search.PlainText(ep.Description))
	if content == "" {
		content = title
	}
	var host string
	if u, err := url.Parse(ep.URL); err == nil {
		host = u.Hostname()
	}
	return domain.Item{
		Kind:       domain.ItemText,
		Content:    content,
		Provenance: domain.ProvenanceWeb,
		Source:     &domain.Source{Title: title, Domain: host},
	}
}

func (m *boardModel) moveNote(doc domain.Workspace, delta int) {
	note, ok := m.noteAtCursor(doc)
	if !ok {
		return
	}
	order, _ := workspace.MoveOrder(doc.NoteIDs(), note.ID, delta)
	if _, err := m.sess.Apply(workspace.ReorderNotesOp{Order: order}); m.fail(err) {
		m.cursor = m.sess.Document().NoteIndex(note.ID)
	}
}

func (m *boardModel) openInput(p inputPurpose, prompt, value string) tea.Cmd {
	m.mode = modeInput
	m.purpose = p
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *boardModel) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = modeNotes
}

func (m *boardModel) commitInput(value string) {
	doc := m.sess.Document()
	switch m.purpose {
	case inputAddNote:
		eff, err := m.sess.Apply(workspace.AddNoteOp{Title: strings.TrimSpace(value)})
		if m.fail(err) {
			m.cursor = m.sess.Document().NoteIndex(eff.NoteID)
		}
	case inputRenameNote:
		if note, ok := m.noteAtCursor(doc); ok {
			_, err := m.sess.Apply(workspace.RenameNoteOp{NoteID: note.ID, Title: value})
			m.fail(err)
		}
	case inputAddItem:
		item := domain.Item{Kind: domain.ItemText, Content: strings.TrimSpace(value), Provenance: domain.ProvenanceManual}
		eff, err := m.sess.AddItem(workspace.ActiveNote, item)
		if m.fail(err) {
			m.cursor = m.sess.Document().NoteIndex(eff.NoteID)
		}
	}
}

func (m *boardModel) save() {
	at, err := m.app.Workspaces.Save(m.ctx, m.sess)
	if !m.fail(err) {
		return
	}
	m.confirmQuit = false
	m.setStatus("Saved " + at.Local().Format("15:04:05"))
}

// fail records err for display and reports whether the action succeeded.
func (m *boardModel) fail(err error) bool {
	m.err = err
	if err != nil {
		m.status = ""
	}
	return err == nil
}

func (m *boardModel) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *boardModel) noteAtCursor(doc domain.Workspace) (domain.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(doc.Notes) {
		return domain.Note{}, false
	}
	return doc.Notes[m.cursor], true
}

func (m *boardModel) View() string {
	doc := m.sess.Document()
	active, _ := m.sess.Selection().ID()

	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render("PREPDESK") + "  " + formatter.Bold(doc.Title))
	if m.sess.Dirty() {
		b.WriteString("  " + formatter.StyleYellow.Render("● unsaved"))
	}
	b.WriteString("\n\n")

	if len(doc.Notes) == 0 {
		b.WriteString("  " + formatter.Dim("No notes yet. Press a to add one.") + "\n")
	}
	for i, n := range doc.Notes {
		cursor := "  "
		titleStyle := formatter.StyleFg
		if i == m.cursor && m.mode == modeNotes {
			cursor = formatter.StyleGreen.Render("▸ ")
			titleStyle = formatter.StyleBold
		}
		marker := " "
		if n.ID == active {
			marker = formatter.StyleYellowBold.Render("●")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s  %s\n", cursor, marker,
			titleStyle.Render(padRight(formatter.Truncate(n.Title, 32), 32)),
			formatter.Dim(formatter.Plural(len(n.Items), "item"))))
	}

	switch m.mode {
	case modeInput:
		b.WriteString("\n  " + m.input.View() + "\n")
	case modeSearch, modeResults:
		b.WriteString("\n" + m.searchView())
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("  " + formatter.StyleGreen.Render(m.status) + "\n")
	}
	b.WriteString("  " + m.helpLine() + "\n")
	return b.String()
}

func (m *boardModel) searchView() string {
	var b strings.Builder
	b.WriteString("  " + m.query.View() + "\n")
	switch {
	case m.searching:
		b.WriteString("  " + formatter.Dim("Searching...") + "\n")
	case m.searchErr != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Search failed: "+m.searchErr.Error()) + "\n")
	}
	for i, r := range m.results {
		cursor := "  "
		if m.mode == modeResults && i == m.resultCursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		var spans []contract.Span
		if r.Matches != nil {
			spans = r.Matches.Title
		}
		title := formatter.RenderHighlighted(search.PlainText(r.Episode.Title), spans, formatter.StyleFg.Render)
		b.WriteString("  " + cursor + title + "\n")
	}
	return b.String()
}

func (m *boardModel) helpLine() string {
	var bindings []key.Binding
	switch m.mode {
	case modeInput:
		return formatter.Dim("enter confirm · esc cancel")
	case modeSearch:
		return formatter.Dim("type to search · enter results · esc back")
	case modeResults:
		return formatter.Dim("↑/↓ choose · c capture into active note · / edit query · esc back")
	default:
		bindings = m.keys.ShortHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
