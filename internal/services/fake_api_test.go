package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

var errUpstream = &apiclient.APIError{StatusCode: 500, Message: "boom", FromServer: true}

type staticToken string

func (t staticToken) Token() string { return string(t) }

type call struct {
	Method string
	Token  string
	Args   []any
}

// fakeAPI implements every service API interface. fail makes the named
// method return errUpstream.
type fakeAPI struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]bool

	pending   []models.Job
	rejected  []models.Job
	jobs      []models.Job
	companies []models.Company
	shapeErr  bool

	// listJobs, when set, replaces the ListJobs behaviour.
	listJobs func(ctx context.Context, q apiclient.JobQuery) ([]models.Job, error)
}

func (f *fakeAPI) record(method, token string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Token: token, Args: args})
	if f.fail[method] {
		return errUpstream
	}
	return nil
}

func (f *fakeAPI) callsTo(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) PendingJobs(_ context.Context, token string) ([]models.Job, error) {
	if err := f.record("PendingJobs", token); err != nil {
		return nil, err
	}
	if f.shapeErr {
		return nil, apiclient.ErrUnexpectedShape
	}
	return f.pending, nil
}

func (f *fakeAPI) RejectedJobs(_ context.Context, token string) ([]models.Job, error) {
	if err := f.record("RejectedJobs", token); err != nil {
		return nil, err
	}
	return f.rejected, nil
}

func (f *fakeAPI) Decide(_ context.Context, token, jobID, decision string) error {
	return f.record("Decide", token, jobID, decision)
}

func (f *fakeAPI) SetFeedback(_ context.Context, token, jobID string, status *string) error {
	return f.record("SetFeedback", token, jobID, status)
}

func (f *fakeAPI) Analyze(_ context.Context, token, jobID string) error {
	return f.record("Analyze", token, jobID)
}

func (f *fakeAPI) ListJobs(ctx context.Context, q apiclient.JobQuery) ([]models.Job, error) {
	if f.listJobs != nil {
		return f.listJobs(ctx, q)
	}
	if err := f.record("ListJobs", "", q); err != nil {
		return nil, err
	}
	return f.jobs, nil
}

func (f *fakeAPI) ListCompanies(_ context.Context) ([]models.Company, error) {
	if err := f.record("ListCompanies", ""); err != nil {
		return nil, err
	}
	if f.shapeErr {
		return nil, apiclient.ErrUnexpectedShape
	}
	return f.companies, nil
}

func (f *fakeAPI) CreateCompany(_ context.Context, token string, req dtos.CompanyCreationRequest) error {
	return f.record("CreateCompany", token, req)
}

func (f *fakeAPI) DeleteManualCompany(_ context.Context, token, id string) error {
	return f.record("DeleteManualCompany", token, id)
}

func (f *fakeAPI) DeleteScrapedCompany(_ context.Context, token, name string) error {
	return f.record("DeleteScrapedCompany", token, name)
}

func (f *fakeAPI) CreateJob(_ context.Context, token string, req dtos.JobCreationRequest) error {
	return f.record("CreateJob", token, req)
}

func ids(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func jobsWithIDs(idList ...string) []models.Job {
	out := make([]models.Job, len(idList))
	for i, id := range idList {
		out[i] = models.Job{ID: id, Title: "Job " + id, Company: "Acme", Status: models.StatusPendingReview}
	}
	return out
}

func isUpstream(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 500
}
