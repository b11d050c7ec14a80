package api

import (
	"context"
	"net/url"

	"acadconnect/internal/model"
)

// CollaborationService groups the matches and request endpoints.
type CollaborationService struct {
	c *Client
}

// Matches returns the users the backend suggests as collaborators for
// the current session.
func (s *CollaborationService) Matches(ctx context.Context) ([]model.User, error) {
	var out struct {
		Success bool         `json:"success"`
		Matches []model.User `json:"matches"`
	}
	if err := s.c.get(ctx, "/matches", &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// MatchesForUser returns the suggestions for a specific user.
func (s *CollaborationService) MatchesForUser(ctx context.Context, userID string) ([]model.User, error) {
	var out struct {
		Success bool         `json:"success"`
		Matches []model.User `json:"matches"`
	}
	if err := s.c.get(ctx, "/matches/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// CreateRequest sends a collaboration request and returns the new
// request's id as acknowledgement.
func (s *CollaborationService) CreateRequest(ctx context.Context, in model.CollaborationRequestInput) (string, error) {
	var out struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if err := s.c.post(ctx, "/request", in, &out); err != nil {
		return "", err
	}
	return out.RequestID, nil
}

// StudentRequests lists the requests the current student has sent.
func (s *CollaborationService) StudentRequests(ctx context.Context) ([]model.CollaborationRequest, error) {
	return s.listRequests(ctx, "/requests/student")
}

// FacultyRequests lists the requests addressed to the current faculty
// member.
func (s *CollaborationService) FacultyRequests(ctx context.Context) ([]model.CollaborationRequest, error) {
	return s.listRequests(ctx, "/requests/faculty")
}

func (s *CollaborationService) listRequests(ctx context.Context, path string) ([]model.CollaborationRequest, error) {
	var out struct {
		Success  bool                         `json:"success"`
		Requests []model.CollaborationRequest `json:"requests"`
	}
	if err := s.c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// UpdateRequestStatus accepts or rejects a pending request.
func (s *CollaborationService) UpdateRequestStatus(ctx context.Context, requestID string, status model.RequestStatus) error {
	body := struct {
		Status model.RequestStatus `json:"status"`
	}{Status: status}
	return s.c.put(ctx, "/request/"+url.PathEscape(requestID)+"/status", body, nil)
}
