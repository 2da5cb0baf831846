package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

// FeedAPI is the part of the API the public pages use.
type FeedAPI interface {
	ListJobs(ctx context.Context, q apiclient.JobQuery) ([]models.Job, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	SetFeedback(ctx context.Context, token, jobID string, status *string) error
}

// FeedService holds the public job feed and the company directory.
type FeedService struct {
	api     FeedAPI
	session TokenSource

	jobs jobList
	// seq tags every FetchJobs call; only the latest tag may write jobs.
	seq atomic.Uint64

	mu        sync.Mutex
	companies []models.Company
}

func NewFeedService(api FeedAPI, session TokenSource) *FeedService {
	return &FeedService{api: api, session: session}
}

// FetchJobs loads active jobs, optionally for one company. limit <= 0 asks
// for the API's default page. If another FetchJobs started after this one,
// the result is dropped and ErrStaleResponse returned.
func (s *FeedService) FetchJobs(ctx context.Context, company string, limit int) ([]models.Job, error) {
	tag := s.seq.Add(1)
	latest := func() bool { return s.seq.Load() == tag }

	jobs, err := s.api.ListJobs(ctx, apiclient.JobQuery{Company: company, Limit: limit})
	switch {
	case errors.Is(err, apiclient.ErrUnexpectedShape):
		slog.Warn("job feed had an unexpected shape, showing it empty", "company", company, "err", err)
		jobs, err = nil, nil
	case err != nil:
		if !latest() {
			return nil, ErrStaleResponse
		}
		slog.Error("job feed fetch failed", "company", company, "err", err)
		return nil, err
	}

	if !s.jobs.setIf(latest, jobs) {
		slog.Debug("dropping stale job feed response", "company", company, "tag", tag)
		return nil, ErrStaleResponse
	}
	return s.jobs.snapshot(), nil
}

// Jobs returns a copy of the current feed.
func (s *FeedService) Jobs() []models.Job { return s.jobs.snapshot() }

// FetchCompanies loads the directory. A payload that is not a list shows
// as an empty directory rather than an error.
func (s *FeedService) FetchCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.api.ListCompanies(ctx)
	switch {
	case errors.Is(err, apiclient.ErrUnexpectedShape):
		slog.Warn("directory had an unexpected shape, showing it empty", "err", err)
		companies = []models.Company{}
	case err != nil:
		slog.Error("directory fetch failed", "err", err)
		companies = []models.Company{}
		s.setCompanies(companies)
		return companies, err
	}
	s.setCompanies(companies)
	return slices.Clone(companies), nil
}

func (s *FeedService) setCompanies(companies []models.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = slices.Clone(companies)
}

// Companies returns a copy of the last loaded directory.
func (s *FeedService) Companies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.companies)
}

// SubmitFeedback records a thumbs signal. "down" hides the job from the
// feed, "up" marks it in place. Both are undone if the API refuses.
func (s *FeedService) SubmitFeedback(ctx context.Context, jobID, signal string) error {
	fb := models.Feedback(signal)

	var undo func()
	switch fb {
	case models.FeedbackDown:
		undo, _ = s.jobs.remove(jobID)
	case models.FeedbackUp:
		undo, _ = s.jobs.update(jobID, func(j *models.Job) { j.Feedback = models.FeedbackUp })
	default:
		return ErrInvalidFeedback
	}

	status := string(fb)
	if err := s.api.SetFeedback(ctx, s.session.Token(), jobID, &status); err != nil {
		undo()
		slog.Error("feedback failed, feed restored", "job_id", jobID, "signal", fb, "err", err)
		return err
	}
	return nil
}

// Home is the landing page: the newest jobs and the first few companies.
type Home struct {
	Jobs      []models.Job     `json:"jobs"`
	Companies []models.Company `json:"companies"`
}

const (
	HomeJobLimit     = 9
	HomeCompanyLimit = 8
)

// Home loads both halves of the landing page. A failure in either half
// leaves that half empty; the first error is returned alongside.
func (s *FeedService) Home(ctx context.Context) (Home, error) {
	var (
		home     Home
		firstErr error
	)
	jobs, err := s.FetchJobs(ctx, "", HomeJobLimit)
	if err != nil {
		firstErr = err
	}
	home.Jobs = jobs
	if home.Jobs == nil {
		home.Jobs = []models.Job{}
	}

	companies, err := s.FetchCompanies(ctx)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	if len(companies) > HomeCompanyLimit {
		companies = companies[:HomeCompanyLimit]
	}
	home.Companies = companies
	if home.Companies == nil {
		home.Companies = []models.Company{}
	}
	return home, firstErr
}
