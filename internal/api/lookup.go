package api

import (
	"context"
	"errors"

	"acadconnect/internal/model"
)

// UserByID locates a single profile without knowing its variant. The
// backend has no combined endpoint, so this is two fallible lookups
// tried in sequence, first match wins: faculty, then student. Only a
// not-found answer from the faculty lookup falls through; any other
// failure is returned as-is.
func (c *Client) UserByID(ctx context.Context, id string) (model.User, error) {
	user, err := c.Faculty.ByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	return c.Students.ByID(ctx, id)
}
