package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"acadconnect/internal/api"
	"acadconnect/internal/directory"
	"acadconnect/internal/model"
)

const fetchTimeout = 30 * time.Second

// directoryLoadedMsg carries the combined faculty+students list.
type directoryLoadedMsg struct {
	users []model.User
}

// directoryErrMsg is a failed joint fetch. Partial success is never
// delivered: if one leg fails the whole fetch fails.
type directoryErrMsg struct {
	err error
}

// filterResultMsg is a debounced recompute arriving from the engine.
type filterResultMsg directory.Result

// DirectoryPage is the browsable, filterable user directory.
type DirectoryPage struct {
	client *api.Client
	engine *directory.Engine
	styles Styles

	search  textinput.Model
	results table.Model

	deptOptions []string
	deptIdx     int
	areaOptions []string
	areaIdx     int
	userType    directory.UserTypeFilter

	visible []model.User
	loading bool
	err     error

	// eventCh carries engine recomputes from the debounce timer
	// goroutine into the bubbletea update loop.
	eventCh chan directory.Result

	width  int
	height int
}

// NewDirectoryPage creates the directory page. Nothing is fetched until
// Init runs.
func NewDirectoryPage(client *api.Client, styles Styles) *DirectoryPage {
	search := textinput.New()
	search.Placeholder = "Search by name, keyword..."
	search.Prompt = "/ "
	search.Focus()

	cols := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Type", Width: 8},
		{Title: "Department", Width: 22},
		{Title: "Role", Width: 24},
		{Title: "Status", Width: 24},
	}
	results := table.New(table.WithColumns(cols), table.WithHeight(12))

	p := &DirectoryPage{
		client:      client,
		styles:      styles,
		search:      search,
		results:     results,
		userType:    directory.TypeAll,
		deptOptions: []string{directory.AllDepartments},
		areaOptions: []string{directory.AllAreas},
		loading:     true,
		eventCh:     make(chan directory.Result, 8),
	}
	p.engine = directory.NewEngine(directory.DefaultDebounce, func(r directory.Result) {
		p.eventCh <- r
	})
	return p
}

// Init starts the joint fetch and the engine-event pump.
func (p *DirectoryPage) Init() tea.Cmd {
	return tea.Batch(p.fetchCmd(), p.waitForResult())
}

// fetchCmd fetches faculty and students concurrently. Both legs must
// succeed; the first error cancels the other leg and the successful
// half is discarded.
func (p *DirectoryPage) fetchCmd() tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var faculty, students []model.User
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			faculty, err = client.Faculty.All(ctx, api.FacultyListOptions{})
			return err
		})
		g.Go(func() error {
			var err error
			students, err = client.Students.All(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return directoryErrMsg{err: err}
		}

		combined := make([]model.User, 0, len(faculty)+len(students))
		combined = append(combined, faculty...)
		combined = append(combined, students...)
		return directoryLoadedMsg{users: combined}
	}
}

// waitForResult blocks on the next engine recompute.
func (p *DirectoryPage) waitForResult() tea.Cmd {
	ch := p.eventCh
	return func() tea.Msg {
		return filterResultMsg(<-ch)
	}
}

// SetSize updates the layout for a new terminal size.
func (p *DirectoryPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.search.Width = w - 10
	if h > 12 {
		p.results.SetHeight(h - 10)
	}
}

// Selected returns the user under the cursor, if any.
func (p *DirectoryPage) Selected() (model.User, bool) {
	idx := p.results.Cursor()
	if idx < 0 || idx >= len(p.visible) {
		return model.User{}, false
	}
	return p.visible[idx], true
}

// Update handles one message.
func (p *DirectoryPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case directoryLoadedMsg:
		p.loading = false
		p.err = nil
		p.deptOptions = directory.Departments(msg.users)
		p.areaOptions = directory.ResearchAreas(msg.users)
		p.deptIdx, p.areaIdx = 0, 0
		p.engine.SetSource(msg.users)
		return nil

	case directoryErrMsg:
		p.loading = false
		p.err = msg.err
		return nil

	case filterResultMsg:
		p.visible = msg.Users
		p.results.SetRows(p.rows(msg.Users))
		if p.results.Cursor() >= len(msg.Users) {
			p.results.SetCursor(0)
		}
		return p.waitForResult()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *DirectoryPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		p.results, cmd = p.results.Update(msg)
		return cmd

	case "tab":
		p.deptIdx = (p.deptIdx + 1) % len(p.deptOptions)
		p.pushFilters()
		return nil

	case "shift+tab":
		p.areaIdx = (p.areaIdx + 1) % len(p.areaOptions)
		p.pushFilters()
		return nil

	case "ctrl+t":
		switch p.userType {
		case directory.TypeAll:
			p.userType = directory.TypeFaculty
		case directory.TypeFaculty:
			p.userType = directory.TypeStudent
		default:
			p.userType = directory.TypeAll
		}
		p.pushFilters()
		return nil

	case "ctrl+r":
		// Operator-initiated retry: re-issue the same fetch from
		// scratch, suspending filtering while it is in flight.
		p.loading = true
		p.err = nil
		p.engine.Reset()
		return p.fetchCmd()

	default:
		before := p.search.Value()
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		if p.search.Value() != before {
			p.pushFilters()
		}
		return cmd
	}
}

// pushFilters forwards the current field values to the engine, which
// debounces the recompute.
func (p *DirectoryPage) pushFilters() {
	p.engine.SetFilters(directory.Filters{
		Search:       p.search.Value(),
		Department:   p.deptOptions[p.deptIdx],
		ResearchArea: p.areaOptions[p.areaIdx],
		UserType:     p.userType,
	})
}

func (p *DirectoryPage) rows(users []model.User) []table.Row {
	rows := make([]table.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, table.Row{
			u.Name,
			string(u.UserType),
			u.Department,
			u.RoleLine(),
			string(u.CollaborationStatus),
		})
	}
	return rows
}

// View renders the page.
func (p *DirectoryPage) View() string {
	var sb strings.Builder

	sb.WriteString(p.styles.Title.Render("User Directory"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render("Find faculty and students by department, research interests, or keywords."))
	sb.WriteString("\n\n")

	if p.err != nil {
		sb.WriteString(p.styles.Error.Render("Error Loading Users"))
		sb.WriteString("\n")
		sb.WriteString(p.styles.Body.Render(errorText(p.err)))
		sb.WriteString("\n\n")
		sb.WriteString(p.styles.Footer.Render("ctrl+r try again • ctrl+c quit"))
		return sb.String()
	}

	sb.WriteString(p.styles.FilterBar.Render(p.filterLine()))
	sb.WriteString("\n\n")

	if p.loading {
		sb.WriteString(p.skeleton())
	} else if len(p.visible) == 0 {
		sb.WriteString(p.styles.Muted.Render("No users match your current filters. Try adjusting your search or filter criteria."))
	} else {
		sb.WriteString(p.results.View())
	}

	sb.WriteString("\n\n")
	sb.WriteString(p.styles.Footer.Render("type to search • tab department • shift+tab area • ctrl+t type • enter profile • ctrl+n matches • ctrl+r refresh"))
	return sb.String()
}

func (p *DirectoryPage) filterLine() string {
	dept := p.deptOptions[p.deptIdx]
	if dept == directory.AllDepartments {
		dept = "All Departments"
	}
	area := p.areaOptions[p.areaIdx]
	if area == directory.AllAreas {
		area = "All Research Areas"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		p.search.View(),
		p.styles.Badge.Render(dept),
		p.styles.Badge.Render(area),
		p.styles.Badge.Render(string(p.userType)),
	)
}

// skeleton renders placeholder rows while the joint fetch is in flight.
// Filtering is suspended in this state; no filtered result is shown.
func (p *DirectoryPage) skeleton() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteString(p.styles.Skeleton.Render(strings.Repeat("▒", 72)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// errorText picks the user-facing message for a fetch failure.
func errorText(err error) string {
	if api.IsConnectionError(err) {
		return "Failed to connect to the backend API. Please ensure the server is running and reachable."
	}
	return fmt.Sprintf("Failed to load user data: %v. Try again.", err)
}
