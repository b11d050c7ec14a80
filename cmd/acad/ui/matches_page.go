package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"acadconnect/internal/api"
	"acadconnect/internal/model"
	"acadconnect/internal/session"
)

type matchesLoadedMsg struct {
	matches []model.User
}

type matchesErrMsg struct {
	err error
}

type requestsLoadedMsg struct {
	requests []model.CollaborationRequest
}

type requestStatusMsg struct {
	err error
}

// MatchesPage lists suggested collaborators and, for faculty, the
// incoming request inbox.
type MatchesPage struct {
	client *api.Client
	store  *session.Store
	styles Styles

	matches  []model.User
	requests []model.CollaborationRequest
	results  table.Model
	showing  string // "matches" or "requests"
	loading  bool
	err      error
	notice   string

	width  int
	height int
}

// NewMatchesPage creates the matches page.
func NewMatchesPage(client *api.Client, store *session.Store, styles Styles) *MatchesPage {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Department", Width: 22},
		{Title: "Research Interests", Width: 40},
	}
	results := table.New(table.WithColumns(columns), table.WithFocused(true))

	return &MatchesPage{
		client:  client,
		store:   store,
		styles:  styles,
		results: results,
		showing: "matches",
		loading: true,
	}
}

// Init fetches the match suggestions.
func (p *MatchesPage) Init() tea.Cmd {
	return p.fetchMatchesCmd()
}

func (p *MatchesPage) fetchMatchesCmd() tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		matches, err := client.Collaboration.Matches(ctx)
		if err != nil {
			return matchesErrMsg{err: err}
		}
		return matchesLoadedMsg{matches: matches}
	}
}

func (p *MatchesPage) fetchRequestsCmd() tea.Cmd {
	client := p.client
	current, ok := p.store.CurrentUser()
	if !ok {
		return nil
	}
	faculty := current.IsFaculty()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		var (
			requests []model.CollaborationRequest
			err      error
		)
		if faculty {
			requests, err = client.Collaboration.FacultyRequests(ctx)
		} else {
			requests, err = client.Collaboration.StudentRequests(ctx)
		}
		if err != nil {
			return matchesErrMsg{err: err}
		}
		return requestsLoadedMsg{requests: requests}
	}
}

// SetSize updates the layout for a new terminal size.
func (p *MatchesPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.results.SetHeight(max(h-8, 4))
}

// SelectedMatch returns the id of the highlighted match, if any. Only
// meaningful while the matches tab is showing.
func (p *MatchesPage) SelectedMatch() (string, bool) {
	if p.showing != "matches" {
		return "", false
	}
	idx := p.results.Cursor()
	if idx < 0 || idx >= len(p.matches) {
		return "", false
	}
	return p.matches[idx].ID, true
}

// Update handles one message.
func (p *MatchesPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case matchesLoadedMsg:
		p.loading = false
		p.err = nil
		p.matches = msg.matches
		p.refreshRows()
		return nil

	case requestsLoadedMsg:
		p.loading = false
		p.err = nil
		p.requests = msg.requests
		p.refreshRows()
		return nil

	case matchesErrMsg:
		p.loading = false
		p.err = msg.err
		return nil

	case requestStatusMsg:
		if msg.err != nil {
			p.notice = "Could not update request: " + msg.err.Error()
			return nil
		}
		p.notice = "Request updated."
		p.loading = true
		return p.fetchRequestsCmd()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *MatchesPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		p.results, cmd = p.results.Update(msg)
		return cmd

	case "tab":
		p.notice = ""
		if p.showing == "matches" {
			p.showing = "requests"
			p.loading = true
			return p.fetchRequestsCmd()
		}
		p.showing = "matches"
		p.loading = true
		return p.fetchMatchesCmd()

	case "a", "r":
		if p.showing != "requests" {
			return nil
		}
		current, ok := p.store.CurrentUser()
		if !ok || !current.IsFaculty() {
			return nil
		}
		idx := p.results.Cursor()
		if idx < 0 || idx >= len(p.requests) {
			return nil
		}
		req := p.requests[idx]
		if req.Status != model.RequestPending {
			p.notice = "Only pending requests can be updated."
			return nil
		}
		status := model.RequestAccepted
		if msg.String() == "r" {
			status = model.RequestRejected
		}
		return p.updateStatusCmd(req.ID, status)

	case "ctrl+r":
		p.notice = ""
		p.loading = true
		if p.showing == "requests" {
			return p.fetchRequestsCmd()
		}
		return p.fetchMatchesCmd()
	}
	return nil
}

func (p *MatchesPage) updateStatusCmd(requestID string, status model.RequestStatus) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return requestStatusMsg{err: client.Collaboration.UpdateRequestStatus(ctx, requestID, status)}
	}
}

func (p *MatchesPage) refreshRows() {
	if p.showing == "requests" {
		columns := []table.Column{
			{Title: "From", Width: 22},
			{Title: "Topic", Width: 40},
			{Title: "Status", Width: 12},
		}
		rows := make([]table.Row, 0, len(p.requests))
		for _, req := range p.requests {
			from := req.StudentID
			if req.Student != nil {
				from = req.Student.Name
			}
			rows = append(rows, table.Row{from, truncate(req.ResearchTopic, 40), string(req.Status)})
		}
		p.results.SetColumns(columns)
		p.results.SetRows(rows)
		return
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Department", Width: 22},
		{Title: "Research Interests", Width: 40},
	}
	rows := make([]table.Row, 0, len(p.matches))
	for _, match := range p.matches {
		rows = append(rows, table.Row{
			match.Name,
			match.Department,
			truncate(strings.Join(match.ResearchInterests, ", "), 40),
		})
	}
	p.results.SetColumns(columns)
	p.results.SetRows(rows)
}

// View renders the page.
func (p *MatchesPage) View() string {
	var sb strings.Builder

	title := "Suggested Collaborators"
	if p.showing == "requests" {
		title = "Collaboration Requests"
	}
	sb.WriteString(p.styles.Title.Render(title))
	sb.WriteString("\n")

	if p.notice != "" {
		sb.WriteString(p.styles.Info.Render(p.notice))
		sb.WriteString("\n")
	}

	switch {
	case p.loading:
		for i := 0; i < 4; i++ {
			sb.WriteString(p.styles.Skeleton.Render(strings.Repeat("▒", 72)))
			sb.WriteString("\n")
		}
	case p.err != nil:
		sb.WriteString(p.styles.Error.Render("Error: " + errorText(p.err)))
		sb.WriteString("\n")
	case p.showing == "matches" && len(p.matches) == 0:
		sb.WriteString(p.styles.Muted.Render("No suggestions yet. Add research interests to your profile to get matched."))
		sb.WriteString("\n")
	case p.showing == "requests" && len(p.requests) == 0:
		sb.WriteString(p.styles.Muted.Render("No collaboration requests."))
		sb.WriteString("\n")
	default:
		sb.WriteString(p.results.View())
		sb.WriteString("\n")
	}

	help := "enter open profile • tab requests • ctrl+r refresh • esc back"
	if p.showing == "requests" {
		help = "tab matches • ctrl+r refresh • esc back"
		if current, ok := p.store.CurrentUser(); ok && current.IsFaculty() {
			help = "a accept • r reject • " + help
		}
	}
	sb.WriteString("\n")
	sb.WriteString(p.styles.Footer.Render(help))
	return sb.String()
}

// truncate shortens s to n characters, counting runes so multi-byte
// names never get cut mid-sequence.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
