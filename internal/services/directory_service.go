package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

// DirectoryAPI is the part of the API the admin company page uses.
type DirectoryAPI interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, token string, req dtos.CompanyCreationRequest) error
	DeleteManualCompany(ctx context.Context, token, id string) error
	DeleteScrapedCompany(ctx context.Context, token, name string) error
}

// DirectoryService manages companies on behalf of an admin.
type DirectoryService struct {
	api     DirectoryAPI
	session TokenSource

	mu        sync.Mutex
	companies []models.Company
}

func NewDirectoryService(api DirectoryAPI, session TokenSource) *DirectoryService {
	return &DirectoryService{api: api, session: session}
}

// Fetch reloads the company list.
func (s *DirectoryService) Fetch(ctx context.Context) ([]models.Company, error) {
	companies, err := s.api.ListCompanies(ctx)
	switch {
	case errors.Is(err, apiclient.ErrUnexpectedShape):
		slog.Warn("directory had an unexpected shape, showing it empty", "err", err)
		companies = []models.Company{}
	case err != nil:
		slog.Error("directory fetch failed", "err", err)
		return nil, err
	}

	s.mu.Lock()
	s.companies = slices.Clone(companies)
	s.mu.Unlock()
	return slices.Clone(companies), nil
}

// Companies returns a copy of the last loaded list.
func (s *DirectoryService) Companies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.companies)
}

// Create adds a manual company and reloads the list so the new entry shows
// with the id the API assigned.
func (s *DirectoryService) Create(ctx context.Context, req dtos.CompanyCreationRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Domain = strings.TrimSpace(req.Domain)
	req.Cities = normalizeCities(req.Cities)
	if req.Name == "" {
		return ErrInvalidCompany
	}

	if err := s.api.CreateCompany(ctx, s.session.Token(), req); err != nil {
		slog.Error("create company failed", "name", req.Name, "err", err)
		return err
	}
	slog.Info("company created", "name", req.Name)

	if _, err := s.Fetch(ctx); err != nil {
		// The company exists; only the refresh failed.
		slog.Warn("directory refresh after create failed", "err", err)
	}
	return nil
}

// Delete removes a company. Manual entries are deleted by id, scraped ones
// by name, which also drops every job scraped for it. The local list is
// only changed after the API confirms.
func (s *DirectoryService) Delete(ctx context.Context, company models.Company) error {
	if company.Name == "" {
		return ErrInvalidCompany
	}

	var err error
	if company.Source == models.SourceManual {
		if company.ID == "" {
			return ErrInvalidCompany
		}
		err = s.api.DeleteManualCompany(ctx, s.session.Token(), company.ID)
	} else {
		err = s.api.DeleteScrapedCompany(ctx, s.session.Token(), company.Name)
	}
	if err != nil {
		slog.Error("delete company failed", "name", company.Name, "source", company.Source, "err", err)
		return err
	}

	s.mu.Lock()
	s.companies = slices.DeleteFunc(s.companies, func(c models.Company) bool { return c.Name == company.Name })
	s.mu.Unlock()
	slog.Info("company deleted", "name", company.Name, "source", company.Source)
	return nil
}

// normalizeCities trims each entry of a comma separated list and drops
// empty ones: " Berlin, ,Munich " becomes "Berlin,Munich".
func normalizeCities(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
