package api

import (
	"context"
	"net/url"
	"strings"

	"acadconnect/internal/model"
)

// FacultyService groups the /faculty endpoints.
type FacultyService struct {
	c *Client
}

// FacultyListOptions are the optional server-side filters of GET
// /faculty. Zero values are omitted from the query.
type FacultyListOptions struct {
	Department        string
	ResearchInterests []string
	Search            string
}

func (o FacultyListOptions) query() string {
	q := url.Values{}
	if o.Department != "" {
		q.Set("department", o.Department)
	}
	if len(o.ResearchInterests) > 0 {
		q.Set("research_interests", strings.Join(o.ResearchInterests, ","))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// All lists faculty, optionally filtered server-side.
func (s *FacultyService) All(ctx context.Context, opts FacultyListOptions) ([]model.User, error) {
	var out struct {
		Success bool         `json:"success"`
		Faculty []model.User `json:"faculty"`
	}
	if err := s.c.get(ctx, "/faculty"+opts.query(), &out); err != nil {
		return nil, err
	}
	return out.Faculty, nil
}

// ByID fetches one faculty record. Returns ErrNotFound for an unknown
// or non-faculty id.
func (s *FacultyService) ByID(ctx context.Context, id string) (model.User, error) {
	var out struct {
		Success bool       `json:"success"`
		Faculty model.User `json:"faculty"`
	}
	if err := s.c.get(ctx, "/faculty/"+url.PathEscape(id), &out); err != nil {
		return model.User{}, err
	}
	return out.Faculty, nil
}

// Update replaces the stored profile. The backend authorizes the owner
// server-side; callers re-fetch the canonical record afterwards.
func (s *FacultyService) Update(ctx context.Context, id string, u model.User) error {
	return s.c.put(ctx, "/faculty/"+url.PathEscape(id), u, nil)
}

// Departments returns the distinct non-empty department names, sorted by
// the server.
func (s *FacultyService) Departments(ctx context.Context) ([]string, error) {
	var out struct {
		Success     bool     `json:"success"`
		Departments []string `json:"departments"`
	}
	if err := s.c.get(ctx, "/departments", &out); err != nil {
		return nil, err
	}
	return out.Departments, nil
}

// StudentService groups the /students endpoints.
type StudentService struct {
	c *Client
}

// All lists every student.
func (s *StudentService) All(ctx context.Context) ([]model.User, error) {
	var out struct {
		Success  bool         `json:"success"`
		Students []model.User `json:"students"`
	}
	if err := s.c.get(ctx, "/students", &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

// ByID fetches one student record. Returns ErrNotFound for an unknown or
// non-student id.
func (s *StudentService) ByID(ctx context.Context, id string) (model.User, error) {
	var out struct {
		Success bool       `json:"success"`
		Student model.User `json:"student"`
	}
	if err := s.c.get(ctx, "/students/"+url.PathEscape(id), &out); err != nil {
		return model.User{}, err
	}
	return out.Student, nil
}

// Update replaces the stored profile, subject to the backend's owner
// check.
func (s *StudentService) Update(ctx context.Context, id string, u model.User) error {
	return s.c.put(ctx, "/students/"+url.PathEscape(id), u, nil)
}

// Programs returns the distinct study programs.
func (s *StudentService) Programs(ctx context.Context) ([]string, error) {
	var out struct {
		Success  bool     `json:"success"`
		Programs []string `json:"programs"`
	}
	if err := s.c.get(ctx, "/programs", &out); err != nil {
		return nil, err
	}
	return out.Programs, nil
}

// ResearchInterests returns the distinct research interests across all
// users.
func (s *StudentService) ResearchInterests(ctx context.Context) ([]string, error) {
	var out struct {
		Success   bool     `json:"success"`
		Interests []string `json:"research_interests"`
	}
	if err := s.c.get(ctx, "/research-interests", &out); err != nil {
		return nil, err
	}
	return out.Interests, nil
}
