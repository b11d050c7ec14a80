// Package directory derives the filtered directory view from the full
// fetched user list and four independent filter predicates. Filtering is
// pure and order-preserving; the Engine adds debounced recomputation on
// top.
package directory

import (
	"sort"
	"strings"

	"acadconnect/internal/model"
)

// Sentinel selector values meaning "no filter applied" for that
// dimension.
const (
	AllDepartments = "all_departments"
	AllAreas       = "all_research_areas"
)

// UserTypeFilter selects which profile variant to show.
type UserTypeFilter string

const (
	TypeAll     UserTypeFilter = "all"
	TypeFaculty UserTypeFilter = "faculty"
	TypeStudent UserTypeFilter = "student"
)

// Filters holds the four independent filter fields. The zero value is
// not meaningful; use DefaultFilters.
type Filters struct {
	Search       string
	Department   string
	ResearchArea string
	UserType     UserTypeFilter
}

// DefaultFilters returns the unfiltered state: every selector at its
// sentinel.
func DefaultFilters() Filters {
	return Filters{
		Department:   AllDepartments,
		ResearchArea: AllAreas,
		UserType:     TypeAll,
	}
}

// Match reports whether u passes all four predicates (conjunctive).
func (f Filters) Match(u model.User) bool {
	if f.UserType != TypeAll && f.UserType != "" && string(u.UserType) != string(f.UserType) {
		return false
	}
	if f.Department != "" && f.Department != AllDepartments && u.Department != f.Department {
		return false
	}
	if f.ResearchArea != "" && f.ResearchArea != AllAreas {
		found := false
		for _, interest := range u.ResearchInterests {
			if interest == f.ResearchArea {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Bio), term) &&
			!strings.Contains(strings.ToLower(u.Department), term) &&
			!containsFold(u.ResearchInterests, term) {
			return false
		}
	}
	return true
}

// containsFold reports whether any item contains the lower-cased term.
func containsFold(items []string, term string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), term) {
			return true
		}
	}
	return false
}

// Apply returns the users passing every predicate, preserving the
// original fetch order.
func Apply(users []model.User, f Filters) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

// Departments collects the unique non-empty department values across the
// list, sorted ascending, with the all-departments sentinel prepended.
func Departments(users []model.User) []string {
	return optionList(AllDepartments, users, func(u model.User) []string {
		return []string{u.Department}
	})
}

// ResearchAreas collects the unique non-empty research interests across
// the list, sorted ascending, with the all-areas sentinel prepended.
func ResearchAreas(users []model.User) []string {
	return optionList(AllAreas, users, func(u model.User) []string {
		return u.ResearchInterests
	})
}

func optionList(sentinel string, users []model.User, values func(model.User) []string) []string {
	seen := make(map[string]struct{})
	for _, u := range users {
		for _, v := range values(u) {
			if v == "" {
				continue
			}
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen)+1)
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return append([]string{sentinel}, out...)
}
