package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"acadconnect/internal/api"
	"acadconnect/internal/model"
	"acadconnect/internal/profile"
	"acadconnect/internal/session"
	"acadconnect/internal/validate"
)

type profileLoadedMsg struct {
	user model.User
}

type profileErrMsg struct {
	err error
}

type saveDoneMsg struct {
	confirmed model.User
	err       error
}

type requestSentMsg struct {
	err error
}

type profileMode int

const (
	modeLoading profileMode = iota
	modeNotFound
	modeError
	modeView
	modeEdit
	modeRequest
)

// editField binds one text input to its editor setter and validation
// key.
type editField struct {
	label  string
	errKey string
	input  textinput.Model
	apply  func(string)
	list   profile.ListField
	isList bool
}

// ProfilePage renders a single profile and, for its owner, the edit
// session.
type ProfilePage struct {
	client *api.Client
	store  *session.Store
	styles Styles

	userID string
	mode   profileMode
	err    error
	notice string
	good   bool // notice is a success, not an error

	editor   *profile.Editor
	fields   []editField
	focus    int
	statuses []model.CollaborationStatus
	message  textarea.Model

	width  int
	height int
}

// NewProfilePage creates a page for the given profile id.
func NewProfilePage(client *api.Client, store *session.Store, styles Styles, userID string) *ProfilePage {
	msg := textarea.New()
	msg.Placeholder = "Describe the collaboration you have in mind (10-500 characters)..."
	msg.SetHeight(5)

	return &ProfilePage{
		client:   client,
		store:    store,
		styles:   styles,
		userID:   userID,
		mode:     modeLoading,
		statuses: model.CollaborationStatuses(),
		message:  msg,
	}
}

// Init fetches the profile.
func (p *ProfilePage) Init() tea.Cmd {
	return p.fetchCmd()
}

func (p *ProfilePage) fetchCmd() tea.Cmd {
	client, id := p.client, p.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		user, err := client.UserByID(ctx, id)
		if err != nil {
			return profileErrMsg{err: err}
		}
		return profileLoadedMsg{user: user}
	}
}

// SetSize updates the layout for a new terminal size.
func (p *ProfilePage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.message.SetWidth(min(w-6, 80))
}

// IsOwner reports whether the session owns this profile.
func (p *ProfilePage) IsOwner() bool {
	current, ok := p.store.CurrentUser()
	return ok && current.ID == p.userID
}

// Update handles one message.
func (p *ProfilePage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		p.mode = modeView
		p.err = nil
		p.editor = profile.NewEditor(msg.user, p.store, func(ctx context.Context, id string) (model.User, error) {
			return p.client.UserByID(ctx, id)
		})
		return nil

	case profileErrMsg:
		if errors.Is(msg.err, api.ErrNotFound) {
			p.mode = modeNotFound
		} else {
			p.mode = modeError
			p.err = msg.err
		}
		return nil

	case saveDoneMsg:
		if msg.err != nil {
			// Stay in edit mode; the buffer is preserved.
			var fieldErrs validate.Errors
			if errors.As(msg.err, &fieldErrs) {
				p.notice = "Please fix the highlighted fields."
			} else {
				p.notice = "Update failed: " + msg.err.Error()
			}
			p.good = false
			return nil
		}
		p.editor.Commit(msg.confirmed)
		p.mode = modeView
		p.notice = "Profile updated."
		p.good = true
		p.syncInputs()
		return nil

	case requestSentMsg:
		if msg.err != nil {
			p.notice = "Could not send request: " + msg.err.Error()
			p.good = false
			return nil
		}
		p.mode = modeView
		p.notice = "Collaboration request sent."
		p.good = true
		p.message.Reset()
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *ProfilePage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case modeError, modeNotFound:
		if msg.String() == "ctrl+r" {
			p.mode = modeLoading
			return p.fetchCmd()
		}
		return nil

	case modeView:
		switch msg.String() {
		case "e":
			if p.IsOwner() {
				p.beginEdit()
			}
			return nil
		case "m":
			if !p.IsOwner() {
				if _, ok := p.store.CurrentUser(); ok {
					p.mode = modeRequest
					p.notice = ""
					p.message.Focus()
				} else {
					p.notice = "Log in to send collaboration requests."
					p.good = false
				}
			}
			return nil
		case "ctrl+r":
			p.mode = modeLoading
			return p.fetchCmd()
		}
		return nil

	case modeEdit:
		return p.handleEditKey(msg)

	case modeRequest:
		switch msg.String() {
		case "esc":
			p.mode = modeView
			p.message.Blur()
			return nil
		case "ctrl+d":
			return p.sendRequestCmd()
		default:
			var cmd tea.Cmd
			p.message, cmd = p.message.Update(msg)
			return cmd
		}
	}
	return nil
}

// beginEdit snapshots the canonical record and builds the input fields
// from it.
func (p *ProfilePage) beginEdit() {
	p.editor.Begin()
	p.notice = ""
	buf := p.editor.Buffer()

	title := buf.Position
	if buf.IsStudent() {
		title = buf.Title
	}

	p.fields = []editField{
		p.textField("Name", "name", buf.Name, p.editor.SetName),
		p.textField("Title", "title", title, p.editor.SetTitle),
		p.textField("Department", "department", buf.Department, p.editor.SetDepartment),
		p.textField("Contact", "contactInfo", buf.ContactInfo, p.editor.SetContactInfo),
		p.textField("Bio", "bio", buf.Bio, p.editor.SetBio),
		p.textField("Availability", "", buf.Availability, p.editor.SetAvailability),
		p.listField("Add interest", "researchInterests", profile.FieldInterests),
		p.listField("Add project", "", profile.FieldProjects),
		p.listField("Add publication", "", profile.FieldPublications),
	}
	if buf.IsStudent() {
		p.fields = append(p.fields, p.listField("Add skill", "", profile.FieldSkills))
	}
	p.focus = 0
	p.fields[0].input.Focus()
	p.mode = modeEdit
}

func (p *ProfilePage) textField(label, errKey, value string, apply func(string)) editField {
	in := textinput.New()
	in.SetValue(value)
	in.Prompt = ""
	in.Width = 48
	return editField{label: label, errKey: errKey, input: in, apply: apply}
}

func (p *ProfilePage) listField(label, errKey string, field profile.ListField) editField {
	in := textinput.New()
	in.Prompt = ""
	in.Width = 48
	return editField{label: label, errKey: errKey, input: in, list: field, isList: true}
}

func (p *ProfilePage) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Discard the buffer and restore the canonical record.
		p.editor.Cancel()
		p.mode = modeView
		p.notice = ""
		return nil

	case "ctrl+s":
		return p.saveCmd()

	case "tab", "down":
		p.moveFocus(1)
		return nil

	case "shift+tab", "up":
		p.moveFocus(-1)
		return nil

	case "ctrl+p":
		p.cycleStatus()
		return nil

	case "enter":
		f := &p.fields[p.focus]
		if f.isList {
			if p.editor.Add(f.list, f.input.Value()) {
				f.input.Reset()
			}
		}
		return nil

	case "ctrl+x":
		f := &p.fields[p.focus]
		if f.isList && f.input.Value() == "" {
			items := p.editor.Items(f.list)
			if len(items) > 0 {
				p.editor.Remove(f.list, items[len(items)-1])
			}
		}
		return nil

	default:
		f := &p.fields[p.focus]
		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if !f.isList && f.input.Value() != before && f.apply != nil {
			f.apply(f.input.Value())
		}
		return cmd
	}
}

func (p *ProfilePage) moveFocus(delta int) {
	p.fields[p.focus].input.Blur()
	p.focus = (p.focus + delta + len(p.fields)) % len(p.fields)
	p.fields[p.focus].input.Focus()
}

func (p *ProfilePage) cycleStatus() {
	current := p.editor.Buffer().CollaborationStatus
	next := p.statuses[0]
	for i, s := range p.statuses {
		if s == current {
			if i == len(p.statuses)-1 {
				next = "" // wrap to "not specified"
			} else {
				next = p.statuses[i+1]
			}
			break
		}
	}
	p.editor.SetCollaborationStatus(next)
}

// saveCmd validates synchronously, then hands only the network submit
// to the command goroutine. The editor is mutated exclusively from
// Update; the render loop may read it at any time.
func (p *ProfilePage) saveCmd() tea.Cmd {
	staged, err := p.editor.SaveRequest()
	if err != nil {
		return func() tea.Msg { return saveDoneMsg{err: err} }
	}
	editor := p.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		confirmed, err := editor.Submit(ctx, staged)
		return saveDoneMsg{confirmed: confirmed, err: err}
	}
}

func (p *ProfilePage) sendRequestCmd() tea.Cmd {
	text := p.message.Value()
	if errs := validate.RequestMessage(text); !errs.Ok() {
		p.notice = errs["message"]
		p.good = false
		return nil
	}
	current, ok := p.store.CurrentUser()
	if !ok {
		p.notice = "Log in to send collaboration requests."
		p.good = false
		return nil
	}
	client := p.client
	input := model.CollaborationRequestInput{
		RequesterID: current.ID,
		RequestedID: p.userID,
		Message:     strings.TrimSpace(text),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		_, err := client.Collaboration.CreateRequest(ctx, input)
		return requestSentMsg{err: err}
	}
}

// syncInputs drops the stale edit fields after a save completes.
func (p *ProfilePage) syncInputs() {
	p.fields = nil
	p.focus = 0
}

// View renders the page.
func (p *ProfilePage) View() string {
	var sb strings.Builder

	switch p.mode {
	case modeLoading:
		sb.WriteString(p.styles.Skeleton.Render(strings.Repeat("▒", 48)))
		sb.WriteString("\n")
		sb.WriteString(p.styles.Skeleton.Render(strings.Repeat("▒", 64)))
		return sb.String()

	case modeNotFound:
		sb.WriteString(p.styles.Title.Render("Profile Not Found"))
		sb.WriteString("\n")
		sb.WriteString(p.styles.Muted.Render("No faculty member or student exists with this id."))
		sb.WriteString("\n\n")
		sb.WriteString(p.styles.Footer.Render("ctrl+r try again • esc back"))
		return sb.String()

	case modeError:
		sb.WriteString(p.styles.Error.Render("Error Loading Profile"))
		sb.WriteString("\n")
		sb.WriteString(p.styles.Body.Render(errorText(p.err)))
		sb.WriteString("\n\n")
		sb.WriteString(p.styles.Footer.Render("ctrl+r try again • esc back"))
		return sb.String()
	}

	user := p.editor.Canonical()
	if p.mode == modeEdit {
		user = p.editor.Buffer()
	}

	sb.WriteString(p.styles.Title.Render(user.Name))
	sb.WriteString(" ")
	sb.WriteString(p.styles.Badge.Render(string(user.UserType)))
	if user.CollaborationStatus != "" {
		sb.WriteString(" ")
		sb.WriteString(p.styles.Subtitle.Render(string(user.CollaborationStatus)))
	}
	sb.WriteString("\n")

	if p.notice != "" {
		style := p.styles.Error
		if p.good {
			style = p.styles.Success
		}
		sb.WriteString(style.Render(p.notice))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch p.mode {
	case modeEdit:
		sb.WriteString(p.editView())
		sb.WriteString("\n")
		sb.WriteString(p.styles.Footer.Render("tab next field • enter add item • ctrl+x remove last item • ctrl+p status • ctrl+s save • esc cancel"))
	case modeRequest:
		sb.WriteString(p.styles.Subtitle.Render("Request Collaboration"))
		sb.WriteString("\n")
		sb.WriteString(p.message.View())
		sb.WriteString("\n")
		sb.WriteString(p.styles.Footer.Render("ctrl+d send • esc cancel"))
	default:
		sb.WriteString(p.cardView(user))
		sb.WriteString("\n")
		help := "ctrl+r refresh • esc back"
		if p.IsOwner() {
			help = "e edit • " + help
		} else {
			help = "m request collaboration • " + help
		}
		sb.WriteString(p.styles.Footer.Render(help))
	}
	return sb.String()
}

func (p *ProfilePage) cardView(u model.User) string {
	var sb strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(p.styles.Bold.Render(label + ": "))
		sb.WriteString(p.styles.Body.Render(value))
		sb.WriteString("\n")
	}

	line("Title", u.RoleLine())
	line("Department", u.Department)
	line("Email", u.Email)
	line("Contact", u.ContactInfo)
	line("Availability", u.Availability)
	if u.IsStudent() {
		line("Program", u.Program)
		line("Year", u.YearOfStudy)
		line("Skills", strings.Join(u.Skills, ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(p.styles.Subtitle.Render("Bio"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Body.Render(u.Bio))
	sb.WriteString("\n\n")

	sb.WriteString(p.styles.Subtitle.Render("Research Interests"))
	sb.WriteString("\n")
	for _, interest := range u.ResearchInterests {
		sb.WriteString(p.styles.Badge.Render(interest))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")

	if len(u.CurrentProjects) > 0 {
		sb.WriteString("\n")
		sb.WriteString(p.styles.Subtitle.Render("Current Projects"))
		sb.WriteString("\n")
		for _, project := range u.CurrentProjects {
			sb.WriteString(p.styles.Body.Render("• " + project))
			sb.WriteString("\n")
		}
	}

	// Publications are gated to the faculty display.
	if u.IsFaculty() && len(u.Publications) > 0 {
		sb.WriteString("\n")
		sb.WriteString(p.styles.Subtitle.Render("Publications"))
		sb.WriteString("\n")
		for _, pub := range u.Publications {
			sb.WriteString(p.styles.Body.Render("• " + pub))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (p *ProfilePage) editView() string {
	var sb strings.Builder
	errs := p.editor.FieldErrors()

	for i, f := range p.fields {
		label := f.label
		if i == p.focus {
			sb.WriteString(p.styles.Selected.Render(" " + label + " "))
		} else {
			sb.WriteString(p.styles.Bold.Render(" " + label + " "))
		}
		sb.WriteString(" ")
		sb.WriteString(f.input.View())
		sb.WriteString("\n")

		if f.isList {
			for _, item := range p.editor.Items(f.list) {
				sb.WriteString("   ")
				sb.WriteString(p.styles.Badge.Render(item))
				sb.WriteString(" ")
			}
			if len(p.editor.Items(f.list)) > 0 {
				sb.WriteString("\n")
			}
		}
		if f.errKey != "" {
			if msg, bad := errs[f.errKey]; bad {
				sb.WriteString("   ")
				sb.WriteString(p.styles.FieldError.Render(msg))
				sb.WriteString("\n")
			}
		}
	}

	status := string(p.editor.Buffer().CollaborationStatus)
	if status == "" {
		status = "Not Specified"
	}
	sb.WriteString(p.styles.Bold.Render(" Status "))
	sb.WriteString(" ")
	sb.WriteString(p.styles.Badge.Render(status))
	sb.WriteString("\n")
	return sb.String()
}
