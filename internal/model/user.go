// Package model defines the AcademiaConnect data types shared by the API
// client, the session store, and the UI pages. Field tags follow the wire
// format of the backend (snake_case, Mongo-style "_id").
package model

// UserType discriminates the two profile variants. It is set at
// registration and never changes for the lifetime of the record.
type UserType string

const (
	UserTypeFaculty UserType = "faculty"
	UserTypeStudent UserType = "student"
)

// Valid reports whether t is one of the two known variants.
func (t UserType) Valid() bool {
	return t == UserTypeFaculty || t == UserTypeStudent
}

// CollaborationStatus is the self-reported availability label shown on a
// profile. The empty string means "not specified".
type CollaborationStatus string

const (
	StatusOpenToCollaboration    CollaborationStatus = "Open to Collaboration"
	StatusSeekingCollaborations  CollaborationStatus = "Seeking Collaborations"
	StatusSeekingProjectPartners CollaborationStatus = "Seeking Project Partners"
	StatusOfferingMentorship     CollaborationStatus = "Offering Mentorship"
	StatusSeekingMentorship      CollaborationStatus = "Seeking Mentorship"
	StatusLookingForProject      CollaborationStatus = "Looking for Project"
	StatusCurrentlyBusy          CollaborationStatus = "Currently Busy"
)

// CollaborationStatuses lists the selectable statuses in display order.
func CollaborationStatuses() []CollaborationStatus {
	return []CollaborationStatus{
		StatusOpenToCollaboration,
		StatusSeekingCollaborations,
		StatusSeekingProjectPartners,
		StatusOfferingMentorship,
		StatusSeekingMentorship,
		StatusLookingForProject,
		StatusCurrentlyBusy,
	}
}

// User is the tagged union of the Faculty and Student variants. UserType
// is the discriminant; variant-specific fields are meaningful only when
// the discriminant matches and callers must check it before reading them.
type User struct {
	ID                  string              `json:"_id"`
	Name                string              `json:"name"`
	Email               string              `json:"email"`
	ProfileImage        string              `json:"profile_image,omitempty"`
	Department          string              `json:"department"`
	Bio                 string              `json:"bio"`
	ContactInfo         string              `json:"contact_info"`
	ResearchInterests   []string            `json:"research_interests"`
	CurrentProjects     []string            `json:"current_projects,omitempty"`
	Publications        []string            `json:"publications,omitempty"`
	Availability        string              `json:"availability,omitempty"`
	CollaborationStatus CollaborationStatus `json:"collaboration_status,omitempty"`
	UserType            UserType            `json:"user_type"`

	// Faculty variant.
	Position string `json:"position,omitempty"`

	// Student variant.
	Title       string   `json:"title,omitempty"`
	Program     string   `json:"program,omitempty"`
	YearOfStudy string   `json:"year_of_study,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// IsFaculty reports whether the record is the faculty variant.
func (u User) IsFaculty() bool { return u.UserType == UserTypeFaculty }

// IsStudent reports whether the record is the student variant.
func (u User) IsStudent() bool { return u.UserType == UserTypeStudent }

// RoleLine returns the secondary line shown under the name in directory
// listings: position for faculty, program for students.
func (u User) RoleLine() string {
	switch u.UserType {
	case UserTypeFaculty:
		return u.Position
	case UserTypeStudent:
		return u.Program
	}
	return ""
}

// Registration carries the profile fields plus credentials submitted to
// the register endpoints. ConfirmPassword is checked client-side only and
// never leaves the process.
type Registration struct {
	User
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
