// Package urlservice lists, creates and deletes the shortened links of the
// logged-in account.
package urlservice

import (
	"context"
	"net/http"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/models"
)

// CreateResult is the answer of a shorten call. StatusCode is 201 when the
// link was created and 200 when the API returned an existing one.
type CreateResult struct {
	StatusCode int
	Message    string
	URL        models.ShortURL
}

func (r *CreateResult) Created() bool {
	return r.StatusCode == http.StatusCreated
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns the links of the current account. An account without links
// may be answered with 404; that comes back as a *apiclient.ResponseError.
func (s *Service) List(ctx context.Context) ([]models.ShortURL, error) {
	result := &models.URLListResponse{}
	resp, err := s.client.R(ctx).
		SetResult(result).
		Get("/api/urls")
	if err := apiclient.Check(resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	if result.Data == nil {
		return []models.ShortURL{}, nil
	}

	return result.Data, nil
}

func (s *Service) Create(ctx context.Context, request models.CreateURLRequest) (*CreateResult, error) {
	result := &models.ShortURLResponse{}
	resp, err := s.client.R(ctx).
		SetBody(request).
		SetResult(result).
		Post("/api/shorten")
	if err := apiclient.Check(resp, err, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	return &CreateResult{
		StatusCode: resp.StatusCode(),
		Message:    result.Message,
		URL:        result.Data,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	resp, err := s.client.R(ctx).
		SetPathParam("id", id).
		Delete("/api/urls/{id}")

	return apiclient.Check(resp, err, http.StatusOK, http.StatusNoContent)
}
