// Package profile implements the per-profile edit session: a local
// buffer that stages edits to a user record, re-validating after every
// mutation, and submits a full-record update on save. The buffer is only
// ever activated for the profile's owner.
package profile

import (
	"context"
	"fmt"
	"strings"

	"acadconnect/internal/logging"
	"acadconnect/internal/model"
	"acadconnect/internal/validate"
)

// Updater submits a full profile record, refusing non-owners before any
// network call. Satisfied by the session store.
type Updater interface {
	UpdateProfile(ctx context.Context, id string, u model.User) (bool, error)
}

// FetchFunc re-fetches the canonical record after a successful save.
type FetchFunc func(ctx context.Context, id string) (model.User, error)

// ListField names a dynamic tag-list field of the edit buffer.
type ListField int

const (
	FieldInterests ListField = iota
	FieldProjects
	FieldPublications
	FieldSkills
)

func (f ListField) String() string {
	switch f {
	case FieldInterests:
		return "researchInterests"
	case FieldProjects:
		return "currentProjects"
	case FieldPublications:
		return "publications"
	case FieldSkills:
		return "skills"
	}
	return "unknown"
}

// Editor is the edit session for one profile. Not safe for concurrent
// use; it belongs to a single page.
type Editor struct {
	updater Updater
	fetch   FetchFunc

	canonical model.User
	buffer    model.User
	editing   bool
	errors    validate.Errors
}

// NewEditor creates an editor over the given canonical record.
func NewEditor(canonical model.User, updater Updater, fetch FetchFunc) *Editor {
	return &Editor{
		updater:   updater,
		fetch:     fetch,
		canonical: canonical,
	}
}

// Canonical returns the last confirmed record.
func (e *Editor) Canonical() model.User { return e.canonical }

// Buffer returns the staged edits. Meaningful only while editing.
func (e *Editor) Buffer() model.User { return e.buffer }

// Editing reports whether an edit session is active.
func (e *Editor) Editing() bool { return e.editing }

// FieldErrors returns the validation state of the buffer after the last
// mutation or save attempt.
func (e *Editor) FieldErrors() validate.Errors { return e.errors }

// Begin snapshots the canonical record into the edit buffer. Absent list
// fields are normalized to empty sequences so list mutations never see
// nil.
func (e *Editor) Begin() {
	e.buffer = e.canonical
	e.buffer.ResearchInterests = normalized(e.canonical.ResearchInterests)
	e.buffer.CurrentProjects = normalized(e.canonical.CurrentProjects)
	e.buffer.Publications = normalized(e.canonical.Publications)
	e.buffer.Skills = normalized(e.canonical.Skills)
	e.editing = true
	e.errors = nil
	logging.Profile("edit session started for %s", e.canonical.ID)
}

// Cancel discards the buffer and exits edit mode. No network call is
// issued and the canonical record is untouched.
func (e *Editor) Cancel() {
	e.buffer = model.User{}
	e.editing = false
	e.errors = nil
	logging.Profile("edit session cancelled for %s", e.canonical.ID)
}

// Add appends a trimmed item to the named list field. Empty input and
// case-insensitive duplicates are rejected; the buffer re-validates
// afterwards either way.
func (e *Editor) Add(field ListField, item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	list := e.list(field)
	lower := strings.ToLower(item)
	for _, existing := range *list {
		if strings.ToLower(existing) == lower {
			return false
		}
	}
	*list = append(*list, item)
	e.revalidate()
	return true
}

// Remove deletes an item from the named list field by exact match.
func (e *Editor) Remove(field ListField, item string) bool {
	list := e.list(field)
	for i, existing := range *list {
		if existing == item {
			*list = append((*list)[:i], (*list)[i+1:]...)
			e.revalidate()
			return true
		}
	}
	return false
}

// Items returns the current entries of the named list field.
func (e *Editor) Items(field ListField) []string {
	return *e.list(field)
}

// SetName stages a new display name.
func (e *Editor) SetName(v string) { e.buffer.Name = v; e.revalidate() }

// SetDepartment stages a new department.
func (e *Editor) SetDepartment(v string) { e.buffer.Department = v; e.revalidate() }

// SetBio stages a new bio.
func (e *Editor) SetBio(v string) { e.buffer.Bio = v; e.revalidate() }

// SetContactInfo stages new contact info.
func (e *Editor) SetContactInfo(v string) { e.buffer.ContactInfo = v; e.revalidate() }

// SetAvailability stages new availability text.
func (e *Editor) SetAvailability(v string) { e.buffer.Availability = v; e.revalidate() }

// SetTitle stages the title line: position for faculty, title for
// students.
func (e *Editor) SetTitle(v string) {
	if e.buffer.IsFaculty() {
		e.buffer.Position = v
	} else {
		e.buffer.Title = v
	}
	e.revalidate()
}

// SetCollaborationStatus stages a new status; the empty value clears it.
func (e *Editor) SetCollaborationStatus(s model.CollaborationStatus) {
	e.buffer.CollaborationStatus = s
	e.revalidate()
}

// SaveRequest validates the buffer and returns a snapshot of it for
// submission. On validation failure nothing is returned and the field
// errors are exposed; the buffer stays intact either way. Splitting
// save into SaveRequest, Submit and Commit lets a caller run the
// network leg on another goroutine while all Editor state changes stay
// on the owning one.
func (e *Editor) SaveRequest() (model.User, error) {
	if !e.editing {
		return model.User{}, fmt.Errorf("no edit session active")
	}
	if errs := validate.Profile(e.buffer); !errs.Ok() {
		e.errors = errs
		return model.User{}, errs
	}
	e.errors = nil
	return e.buffer, nil
}

// Submit sends a staged snapshot as a full-record update and re-fetches
// the canonical record. It reads only the updater and fetch hooks, which
// never change after construction, so unlike the other methods it is
// safe to call off the owning goroutine. When the update lands but the
// re-fetch fails the staged record is returned as the confirmed one;
// reporting an error there would keep the session in edit mode with
// stale canonical state and invite a conflicting second save.
func (e *Editor) Submit(ctx context.Context, staged model.User) (model.User, error) {
	if _, err := e.updater.UpdateProfile(ctx, staged.ID, staged); err != nil {
		return model.User{}, err
	}

	refreshed, err := e.fetch(ctx, staged.ID)
	if err != nil {
		logging.Profile("saved %s but re-fetch failed: %v", staged.ID, err)
		return staged, nil
	}
	return refreshed, nil
}

// Commit replaces the canonical record with the confirmed one and exits
// edit mode.
func (e *Editor) Commit(confirmed model.User) {
	e.canonical = confirmed
	e.buffer = model.User{}
	e.editing = false
	e.errors = nil
	logging.Profile("saved profile %s", e.canonical.ID)
}

// Save validates the buffer and submits it as a full-record update. On
// validation failure nothing is submitted and the field errors are
// exposed. On submit failure the edit session stays open with the buffer
// intact so no edits are lost. On success the canonical record is
// re-fetched, local state replaced and edit mode exited.
func (e *Editor) Save(ctx context.Context) error {
	staged, err := e.SaveRequest()
	if err != nil {
		return err
	}
	confirmed, err := e.Submit(ctx, staged)
	if err != nil {
		return err
	}
	e.Commit(confirmed)
	return nil
}

func (e *Editor) list(field ListField) *[]string {
	switch field {
	case FieldProjects:
		return &e.buffer.CurrentProjects
	case FieldPublications:
		return &e.buffer.Publications
	case FieldSkills:
		return &e.buffer.Skills
	default:
		return &e.buffer.ResearchInterests
	}
}

func (e *Editor) revalidate() {
	e.errors = validate.Profile(e.buffer)
}

func normalized(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
