package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadconnect/internal/model"
)

func sampleUsers() []model.User {
	return []model.User{
		{
			ID:                "f1",
			UserType:          model.UserTypeFaculty,
			Name:              "Dr. Elena Vasquez",
			Department:        "Computer Science",
			Bio:               "Loves distributed systems and consensus protocols.",
			ResearchInterests: []string{"Distributed Systems", "Databases"},
			Position:          "Associate Professor",
		},
		{
			ID:                "f2",
			UserType:          model.UserTypeFaculty,
			Name:              "Dr. Marcus Webb",
			Department:        "Biology",
			Bio:               "Studies plants and their root microbiomes.",
			ResearchInterests: []string{"Plant Genetics"},
			Position:          "Professor",
		},
		{
			ID:                "s1",
			UserType:          model.UserTypeStudent,
			Name:              "Priya Narayan",
			Department:        "Computer Science",
			Bio:               "Building a sharded key-value store for my thesis.",
			ResearchInterests: []string{"Distributed Systems"},
			Title:             "PhD Candidate",
		},
		{
			ID:                "s2",
			UserType:          model.UserTypeStudent,
			Name:              "Tomas Lind",
			Department:        "Mathematics",
			Bio:               "Interested in graph theory and combinatorics.",
			ResearchInterests: []string{"Graph Theory"},
			Title:             "MSc Student",
		},
	}
}

func TestMatch_Conjunction(t *testing.T) {
	users := sampleUsers()

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{
			name:    "defaults pass everyone",
			filters: DefaultFilters(),
			wantIDs: []string{"f1", "f2", "s1", "s2"},
		},
		{
			name:    "department only",
			filters: Filters{Department: "Computer Science", ResearchArea: AllAreas, UserType: TypeAll},
			wantIDs: []string{"f1", "s1"},
		},
		{
			name:    "area only",
			filters: Filters{Department: AllDepartments, ResearchArea: "Distributed Systems", UserType: TypeAll},
			wantIDs: []string{"f1", "s1"},
		},
		{
			name:    "user type only",
			filters: Filters{Department: AllDepartments, ResearchArea: AllAreas, UserType: TypeStudent},
			wantIDs: []string{"s1", "s2"},
		},
		{
			name:    "all predicates must hold",
			filters: Filters{Department: "Computer Science", ResearchArea: "Distributed Systems", UserType: TypeFaculty},
			wantIDs: []string{"f1"},
		},
		{
			name:    "conjunction can be empty",
			filters: Filters{Department: "Biology", ResearchArea: "Graph Theory", UserType: TypeAll},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(users, tt.filters)
			ids := make([]string, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestMatch_SearchScansBio(t *testing.T) {
	users := sampleUsers()

	// "distributed" appears in f1's bio and interests and in s1's
	// interests, but nowhere on f2 or s2.
	got := Apply(users, Filters{Search: "distributed", Department: AllDepartments, ResearchArea: AllAreas, UserType: TypeAll})
	require.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
}

func TestMatch_SearchCaseInsensitive(t *testing.T) {
	users := sampleUsers()

	upper := Apply(users, Filters{Search: "PLANTS", Department: AllDepartments, ResearchArea: AllAreas, UserType: TypeAll})
	lower := Apply(users, Filters{Search: "plants", Department: AllDepartments, ResearchArea: AllAreas, UserType: TypeAll})

	require.NotEmpty(t, upper)
	assert.Empty(t, cmp.Diff(lower, upper))
}

func TestMatch_AreaIsExact(t *testing.T) {
	users := sampleUsers()

	// The area selector is an exact interest match, not a substring
	// scan. "Systems" alone selects nobody even though two users carry
	// "Distributed Systems".
	got := Apply(users, Filters{Department: AllDepartments, ResearchArea: "Systems", UserType: TypeAll})
	assert.Empty(t, got)
}

func TestApply_PreservesOrderAndIsIdempotent(t *testing.T) {
	users := sampleUsers()
	filters := Filters{Department: "Computer Science", ResearchArea: AllAreas, UserType: TypeAll}

	once := Apply(users, filters)
	twice := Apply(once, filters)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second application changed the result (-once +twice):\n%s", diff)
	}

	// Fetch order survives filtering.
	require.Len(t, once, 2)
	assert.Equal(t, "f1", once[0].ID)
	assert.Equal(t, "s1", once[1].ID)
}

func TestMatch_SentinelsEqualEmpty(t *testing.T) {
	users := sampleUsers()

	sentinels := Apply(users, Filters{Department: AllDepartments, ResearchArea: AllAreas, UserType: TypeAll})
	empties := Apply(users, Filters{})

	assert.Empty(t, cmp.Diff(sentinels, empties))
	assert.Len(t, sentinels, len(users))
}

func TestDepartments_UniqueSortedWithSentinel(t *testing.T) {
	got := Departments(sampleUsers())
	want := []string{AllDepartments, "Biology", "Computer Science", "Mathematics"}
	assert.Equal(t, want, got)
}

func TestResearchAreas_UniqueSortedWithSentinel(t *testing.T) {
	got := ResearchAreas(sampleUsers())
	want := []string{AllAreas, "Databases", "Distributed Systems", "Graph Theory", "Plant Genetics"}
	assert.Equal(t, want, got)
}

func TestOptionLists_SkipEmptyValues(t *testing.T) {
	users := []model.User{
		{ID: "u1", UserType: model.UserTypeStudent, Name: "No Dept"},
		{ID: "u2", UserType: model.UserTypeFaculty, Name: "Partial", Department: "Physics", ResearchInterests: []string{"", "Optics"}},
	}
	assert.Equal(t, []string{AllDepartments, "Physics"}, Departments(users))
	assert.Equal(t, []string{AllAreas, "Optics"}, ResearchAreas(users))
}
