package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"acadconnect/internal/model"
	"acadconnect/internal/session"
	"acadconnect/internal/validate"
)

type loginDoneMsg struct {
	err error
}

// LoginPage collects credentials and establishes the session.
type LoginPage struct {
	store  *session.Store
	styles Styles

	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errs     validate.Errors
	notice   string

	width  int
	height int
}

// NewLoginPage creates the login form. A non-empty notice is shown above
// the form, for expired-session messaging.
func NewLoginPage(store *session.Store, styles Styles, notice string) *LoginPage {
	email := textinput.New()
	email.Placeholder = "you@university.edu"
	email.Prompt = ""
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.Width = 40
	password.EchoMode = textinput.EchoPassword

	return &LoginPage{
		store:    store,
		styles:   styles,
		email:    email,
		password: password,
		notice:   notice,
	}
}

// Init implements the page contract. Nothing to fetch.
func (p *LoginPage) Init() tea.Cmd { return nil }

// SetSize updates the layout for a new terminal size.
func (p *LoginPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// Update handles one message.
func (p *LoginPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.notice = msg.err.Error()
		}
		return nil

	case tea.KeyMsg:
		if p.busy {
			return nil
		}
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			p.toggleFocus()
			return nil
		case "enter":
			return p.submit()
		default:
			var cmd tea.Cmd
			if p.focus == 0 {
				p.email, cmd = p.email.Update(msg)
			} else {
				p.password, cmd = p.password.Update(msg)
			}
			return cmd
		}
	}
	return nil
}

func (p *LoginPage) toggleFocus() {
	if p.focus == 0 {
		p.focus = 1
		p.email.Blur()
		p.password.Focus()
	} else {
		p.focus = 0
		p.password.Blur()
		p.email.Focus()
	}
}

func (p *LoginPage) submit() tea.Cmd {
	creds := model.Credentials{
		Email:    strings.TrimSpace(p.email.Value()),
		Password: p.password.Value(),
	}
	if errs := validate.Login(creds); !errs.Ok() {
		p.errs = errs
		return nil
	}
	p.errs = nil
	p.notice = ""
	p.busy = true

	store := p.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return loginDoneMsg{err: store.Login(ctx, creds)}
	}
}

// View renders the form.
func (p *LoginPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Sign In to AcademiaConnect"))
	sb.WriteString("\n\n")

	if p.notice != "" {
		sb.WriteString(p.styles.Warning.Render(p.notice))
		sb.WriteString("\n\n")
	}

	sb.WriteString(p.styles.Bold.Render(" Email    "))
	sb.WriteString(p.email.View())
	sb.WriteString("\n")
	if msg, bad := p.errs["email"]; bad {
		sb.WriteString("           ")
		sb.WriteString(p.styles.FieldError.Render(msg))
		sb.WriteString("\n")
	}

	sb.WriteString(p.styles.Bold.Render(" Password "))
	sb.WriteString(p.password.View())
	sb.WriteString("\n")
	if msg, bad := p.errs["password"]; bad {
		sb.WriteString("           ")
		sb.WriteString(p.styles.FieldError.Render(msg))
		sb.WriteString("\n")
	}

	if p.busy {
		sb.WriteString("\n")
		sb.WriteString(p.styles.Muted.Render("Signing in..."))
	}

	sb.WriteString("\n\n")
	sb.WriteString(p.styles.Footer.Render("enter sign in • tab switch field • ctrl+c quit"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render("New here? Run `acad register` to create an account."))
	return sb.String()
}
