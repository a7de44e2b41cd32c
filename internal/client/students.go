package client

import (
	"context"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
)

// Students reads the student directory.
type Students struct {
	c *Client
}

// FetchAll returns the full resolved snapshot of student profiles.
func (s *Students) FetchAll(ctx context.Context) ([]models.StudentProfile, error) {
	profiles := []models.StudentProfile{}
	if err := s.c.get(ctx, "/students/all", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Query filters the directory server-side.
func (s *Students) Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, error) {
	var view directory.View
	if err := s.c.get(ctx, "/students", directory.EncodeCriteria(criteria), &view); err != nil {
		return directory.View{}, err
	}
	return view, nil
}

// Fields lists the distinct preferred fields across the directory.
func (s *Students) Fields(ctx context.Context) ([]string, error) {
	fields := []string{}
	if err := s.c.get(ctx, "/students/fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
