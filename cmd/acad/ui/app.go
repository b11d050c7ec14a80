package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"acadconnect/internal/api"
	"acadconnect/internal/logging"
	"acadconnect/internal/session"
)

// Page is the contract every screen implements. Pages return commands
// rather than models; the App owns navigation.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(w, h int)
}

// App is the root model. It routes messages to the active page and
// handles navigation between pages.
type App struct {
	client *api.Client
	store  *session.Store
	styles Styles

	page  Page
	stack []Page

	width  int
	height int
}

// NewApp builds the root model. The session store must already be
// bootstrapped; the landing page depends on its state.
func NewApp(client *api.Client, store *session.Store, styles Styles) *App {
	app := &App{
		client: client,
		store:  store,
		styles: styles,
	}
	if store.State() == session.StateAuthenticated {
		app.page = NewDirectoryPage(client, styles)
	} else {
		app.page = NewLoginPage(store, styles, store.Notice())
		store.ClearNotice()
	}
	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.page.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.page.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	cmd := a.page.Update(msg)

	// A successful sign-in replaces the login page so esc can never
	// land an authenticated user back on the login form.
	if _, onLogin := a.page.(*LoginPage); onLogin && a.store.State() == session.StateAuthenticated {
		return a, tea.Batch(cmd, a.replace(NewDirectoryPage(a.client, a.styles)))
	}
	return a, cmd
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true

	case "esc":
		// Text entry pages interpret esc themselves.
		if profile, ok := a.page.(*ProfilePage); ok && (profile.mode == modeEdit || profile.mode == modeRequest) {
			return nil, false
		}
		if _, onLogin := a.page.(*LoginPage); onLogin {
			return tea.Quit, true
		}
		return a.pop(), true

	case "ctrl+l":
		if a.store.State() != session.StateAuthenticated {
			return nil, false
		}
		a.store.Logout()
		a.stack = nil
		a.page = NewLoginPage(a.store, a.styles, "Signed out.")
		a.page.SetSize(a.width, a.height-2)
		return a.page.Init(), true

	case "ctrl+n":
		if a.store.State() != session.StateAuthenticated {
			return nil, false
		}
		if _, onMatches := a.page.(*MatchesPage); onMatches {
			return nil, false
		}
		return a.push(NewMatchesPage(a.client, a.store, a.styles)), true

	case "enter":
		switch page := a.page.(type) {
		case *DirectoryPage:
			if user, ok := page.Selected(); ok {
				return a.push(NewProfilePage(a.client, a.store, a.styles, user.ID)), true
			}
		case *MatchesPage:
			if id, ok := page.SelectedMatch(); ok {
				return a.push(NewProfilePage(a.client, a.store, a.styles, id)), true
			}
		}
		return nil, false
	}
	return nil, false
}

// push makes page active, keeping the previous one on the back stack.
func (a *App) push(page Page) tea.Cmd {
	if a.page != nil {
		a.stack = append(a.stack, a.page)
	}
	a.page = page
	page.SetSize(a.width, a.height-2)
	logging.Boot("navigated to %T", page)
	return page.Init()
}

// replace swaps the active page without growing the back stack.
func (a *App) replace(page Page) tea.Cmd {
	a.page = page
	page.SetSize(a.width, a.height-2)
	logging.Boot("navigated to %T", page)
	return page.Init()
}

// pop returns to the previous page, or quits at the stack bottom.
func (a *App) pop() tea.Cmd {
	if len(a.stack) == 0 {
		return tea.Quit
	}
	a.page = a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	a.page.SetSize(a.width, a.height-2)
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	var sb strings.Builder
	sb.WriteString(a.headerLine())
	sb.WriteString("\n")
	sb.WriteString(a.page.View())
	return sb.String()
}

func (a *App) headerLine() string {
	left := a.styles.Header.Render(" AcademiaConnect ")
	if user, ok := a.store.CurrentUser(); ok {
		return left + a.styles.Muted.Render(" "+user.Name+" ("+string(user.UserType)+") • ctrl+l sign out")
	}
	return left + a.styles.Muted.Render(" not signed in")
}
