package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadconnect/internal/model"
)

// fakeUpdater records update calls and returns a scripted result.
type fakeUpdater struct {
	calls []model.User
	err   error
}

func (f *fakeUpdater) UpdateProfile(ctx context.Context, id string, u model.User) (bool, error) {
	f.calls = append(f.calls, u)
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func facultyRecord() model.User {
	return model.User{
		ID:                "f1",
		UserType:          model.UserTypeFaculty,
		Name:              "Dr. Elena Vasquez",
		Email:             "elena@uni.edu",
		Department:        "Computer Science",
		Bio:               "Consensus protocols and storage systems.",
		ContactInfo:       "elena@uni.edu",
		ResearchInterests: []string{"Distributed Systems"},
		Position:          "Associate Professor",
	}
}

func newTestEditor(updater Updater, fetched model.User, fetchErr error) *Editor {
	return NewEditor(facultyRecord(), updater, func(ctx context.Context, id string) (model.User, error) {
		if fetchErr != nil {
			return model.User{}, fetchErr
		}
		return fetched, nil
	})
}

func TestEditor_AddRejectsCaseInsensitiveDuplicate(t *testing.T) {
	editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
	editor.Begin()

	require.True(t, editor.Add(FieldInterests, "ML"))
	assert.False(t, editor.Add(FieldInterests, "ml"))
	assert.False(t, editor.Add(FieldInterests, "  ML  "))

	items := editor.Items(FieldInterests)
	assert.Equal(t, []string{"Distributed Systems", "ML"}, items)
}

func TestEditor_AddRejectsEmptyInput(t *testing.T) {
	editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
	editor.Begin()

	assert.False(t, editor.Add(FieldProjects, ""))
	assert.False(t, editor.Add(FieldProjects, "   "))
	assert.Empty(t, editor.Items(FieldProjects))
}

func TestEditor_AddTrimsBeforeStoring(t *testing.T) {
	editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
	editor.Begin()

	require.True(t, editor.Add(FieldPublications, "  Raft Refloated (2015)  "))
	assert.Equal(t, []string{"Raft Refloated (2015)"}, editor.Items(FieldPublications))
}

func TestEditor_RemoveIsExactMatch(t *testing.T) {
	editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
	editor.Begin()

	assert.False(t, editor.Remove(FieldInterests, "distributed systems"))
	assert.True(t, editor.Remove(FieldInterests, "Distributed Systems"))
	assert.Empty(t, editor.Items(FieldInterests))
}

func TestEditor_CancelRestoresCanonical(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, nil)
	before := editor.Canonical()

	editor.Begin()
	editor.SetName("Someone Else")
	editor.SetBio("Entirely new bio text for the profile.")
	editor.Add(FieldInterests, "Quantum Computing")
	editor.Remove(FieldInterests, "Distributed Systems")
	editor.Cancel()

	assert.False(t, editor.Editing())
	assert.Empty(t, updater.calls, "cancel must not submit anything")
	if diff := cmp.Diff(before, editor.Canonical()); diff != "" {
		t.Errorf("canonical record changed across cancel (-before +after):\n%s", diff)
	}
}

func TestEditor_SaveValidatesBeforeSubmit(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, nil)
	editor.Begin()

	// Emptying the last interest makes the buffer invalid.
	editor.Remove(FieldInterests, "Distributed Systems")

	err := editor.Save(context.Background())
	require.Error(t, err)
	assert.Empty(t, updater.calls, "invalid buffer must not be submitted")
	assert.True(t, editor.Editing(), "edit session stays open")
	assert.Contains(t, editor.FieldErrors(), "researchInterests")
}

func TestEditor_SaveKeepsBufferOnSubmitFailure(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("backend down")}
	editor := newTestEditor(updater, model.User{}, nil)
	editor.Begin()
	editor.SetName("Dr. Elena Vasquez-Ruiz")

	err := editor.Save(context.Background())
	require.Error(t, err)
	assert.True(t, editor.Editing())
	assert.Equal(t, "Dr. Elena Vasquez-Ruiz", editor.Buffer().Name)
	assert.Equal(t, "Dr. Elena Vasquez", editor.Canonical().Name)
}

func TestEditor_SaveRefetchesCanonical(t *testing.T) {
	updater := &fakeUpdater{}
	refreshed := facultyRecord()
	refreshed.Name = "Dr. Elena Vasquez-Ruiz"
	refreshed.Bio = "Server-side normalized bio."
	editor := newTestEditor(updater, refreshed, nil)

	editor.Begin()
	editor.SetName("Dr. Elena Vasquez-Ruiz")

	require.NoError(t, editor.Save(context.Background()))
	assert.False(t, editor.Editing())
	require.Len(t, updater.calls, 1)
	assert.Equal(t, "Dr. Elena Vasquez-Ruiz", updater.calls[0].Name)

	// The confirmed server copy wins, including fields the buffer never
	// touched.
	assert.Equal(t, "Server-side normalized bio.", editor.Canonical().Bio)
}

func TestEditor_SaveSurvivesRefetchFailure(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, errors.New("refetch failed"))
	editor.Begin()
	editor.SetName("Dr. Elena Vasquez-Ruiz")

	// The update itself landed; the save must not report failure.
	require.NoError(t, editor.Save(context.Background()))
	assert.False(t, editor.Editing())
	assert.Equal(t, "Dr. Elena Vasquez-Ruiz", editor.Canonical().Name)
}

func TestEditor_SaveWithoutBegin(t *testing.T) {
	editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
	assert.Error(t, editor.Save(context.Background()))
}

func TestEditor_BeginNormalizesNilLists(t *testing.T) {
	record := facultyRecord()
	record.ResearchInterests = []string{"Distributed Systems"}
	record.CurrentProjects = nil
	record.Publications = nil
	editor := NewEditor(record, &fakeUpdater{}, nil)

	editor.Begin()
	require.True(t, editor.Add(FieldProjects, "Sharded KV store"))
	assert.Equal(t, []string{"Sharded KV store"}, editor.Items(FieldProjects))
	assert.Nil(t, editor.Canonical().CurrentProjects, "canonical record untouched")
}

func TestEditor_SetTitleRoutesByVariant(t *testing.T) {
	t.Run("faculty", func(t *testing.T) {
		editor := newTestEditor(&fakeUpdater{}, model.User{}, nil)
		editor.Begin()
		editor.SetTitle("Full Professor")
		assert.Equal(t, "Full Professor", editor.Buffer().Position)
		assert.Empty(t, editor.Buffer().Title)
	})

	t.Run("student", func(t *testing.T) {
		record := facultyRecord()
		record.UserType = model.UserTypeStudent
		record.Position = ""
		record.Title = "PhD Candidate"
		editor := NewEditor(record, &fakeUpdater{}, nil)
		editor.Begin()
		editor.SetTitle("PhD Student")
		assert.Equal(t, "PhD Student", editor.Buffer().Title)
		assert.Empty(t, editor.Buffer().Position)
	})
}

func TestEditor_SaveRequestLeavesStateUntouched(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, nil)
	editor.Begin()
	editor.SetBio("Now studying verifiable storage systems.")

	staged, err := editor.SaveRequest()
	require.NoError(t, err)
	assert.Equal(t, "Now studying verifiable storage systems.", staged.Bio)

	// Nothing submitted, session still open, buffer intact.
	assert.Empty(t, updater.calls)
	assert.True(t, editor.Editing())
	if diff := cmp.Diff(staged, editor.Buffer()); diff != "" {
		t.Errorf("buffer changed (-staged +buffer):\n%s", diff)
	}
}

func TestEditor_SaveRequestRejectsInvalidBuffer(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, nil)
	editor.Begin()
	require.True(t, editor.Remove(FieldInterests, "Distributed Systems"))

	_, err := editor.SaveRequest()
	require.Error(t, err)
	assert.Empty(t, updater.calls)
	assert.Contains(t, editor.FieldErrors(), "researchInterests")
	assert.True(t, editor.Editing())
}

func TestEditor_SubmitThenCommit(t *testing.T) {
	refreshed := facultyRecord()
	refreshed.Bio = "Server-side normalized bio."
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, refreshed, nil)
	editor.Begin()
	editor.SetBio("Now studying verifiable storage systems.")

	staged, err := editor.SaveRequest()
	require.NoError(t, err)

	confirmed, err := editor.Submit(context.Background(), staged)
	require.NoError(t, err)
	require.Len(t, updater.calls, 1)
	assert.Equal(t, "Now studying verifiable storage systems.", updater.calls[0].Bio)

	// Submit reports the confirmed record without touching the session;
	// only Commit does.
	assert.True(t, editor.Editing())
	editor.Commit(confirmed)
	assert.False(t, editor.Editing())
	if diff := cmp.Diff(refreshed, editor.Canonical()); diff != "" {
		t.Errorf("canonical mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_SubmitFallsBackToStagedOnRefetchFailure(t *testing.T) {
	updater := &fakeUpdater{}
	editor := newTestEditor(updater, model.User{}, errors.New("refetch failed"))
	editor.Begin()
	editor.SetName("Dr. Elena Vasquez-Ruiz")

	staged, err := editor.SaveRequest()
	require.NoError(t, err)

	confirmed, err := editor.Submit(context.Background(), staged)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Elena Vasquez-Ruiz", confirmed.Name)
}
