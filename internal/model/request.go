package model

// RequestStatus is the lifecycle state of a collaboration request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a status the backend accepts.
func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestAccepted || s == RequestRejected
}

// CollaborationRequestInput is the body of POST /request. Write-only from
// the client's perspective: created and sent, never read back here.
type CollaborationRequestInput struct {
	RequesterID string `json:"requesterId"`
	RequestedID string `json:"requestedId"`
	Message     string `json:"message"`
}

// PartySummary is the counterpart summary the backend attaches to each
// request in the inbox listings.
type PartySummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Program    string `json:"program,omitempty"`
}

// CollaborationRequest is a stored request as returned by the
// /requests/student and /requests/faculty inbox endpoints.
type CollaborationRequest struct {
	ID            string        `json:"_id"`
	StudentID     string        `json:"student_id"`
	FacultyID     string        `json:"faculty_id"`
	Message       string        `json:"message"`
	ResearchTopic string        `json:"research_topic,omitempty"`
	Status        RequestStatus `json:"status"`
	Faculty       *PartySummary `json:"faculty,omitempty"`
	Student       *PartySummary `json:"student,omitempty"`
}
