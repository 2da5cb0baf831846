package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

// ModerationAPI is the part of the API the review pages use.
type ModerationAPI interface {
	PendingJobs(ctx context.Context, token string) ([]models.Job, error)
	RejectedJobs(ctx context.Context, token string) ([]models.Job, error)
	Decide(ctx context.Context, token, jobID, decision string) error
	SetFeedback(ctx context.Context, token, jobID string, status *string) error
	Analyze(ctx context.Context, token, jobID string) error
}

// ModerationService keeps the pending and rejected lists an admin works
// through. Decide and Restore update the local list before the API answers
// and put the job back if the API refuses.
type ModerationService struct {
	api     ModerationAPI
	session TokenSource

	pending  jobList
	rejected jobList
}

func NewModerationService(api ModerationAPI, session TokenSource) *ModerationService {
	return &ModerationService{api: api, session: session}
}

// FetchPending replaces the pending list with the API's current queue.
func (s *ModerationService) FetchPending(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.api.PendingJobs(ctx, s.session.Token())
	if err := s.store(&s.pending, "pending", jobs, err); err != nil {
		return nil, err
	}
	return s.pending.snapshot(), nil
}

// FetchRejected replaces the rejected list.
func (s *ModerationService) FetchRejected(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.api.RejectedJobs(ctx, s.session.Token())
	if err := s.store(&s.rejected, "rejected", jobs, err); err != nil {
		return nil, err
	}
	return s.rejected.snapshot(), nil
}

func (s *ModerationService) store(list *jobList, name string, jobs []models.Job, err error) error {
	switch {
	case errors.Is(err, apiclient.ErrUnexpectedShape):
		slog.Warn("moderation list had an unexpected shape, showing it empty", "list", name, "err", err)
		list.set(nil)
		return nil
	case err != nil:
		slog.Error("moderation list fetch failed", "list", name, "err", err)
		return err
	}
	list.set(jobs)
	return nil
}

// Pending returns a copy of the pending list.
func (s *ModerationService) Pending() []models.Job { return s.pending.snapshot() }

// Rejected returns a copy of the rejected list.
func (s *ModerationService) Rejected() []models.Job { return s.rejected.snapshot() }

// Decide accepts or rejects a pending job. The job leaves the pending list
// at once and is put back at the same position if the call fails. The API
// owns the status machine, so an odd local status is only logged.
func (s *ModerationService) Decide(ctx context.Context, jobID, decision string) error {
	d, err := ParseDecision(decision)
	if err != nil {
		return err
	}

	if job, ok := s.pending.get(jobID); ok && job.Status != "" && !IsTransitionAllowed(job.Status, d.Target()) {
		slog.Warn("decision on job with unexpected local status", "job_id", jobID, "from", job.Status, "to", d.Target())
	}

	undo, _ := s.pending.remove(jobID)
	if err := s.api.Decide(ctx, s.session.Token(), jobID, string(d)); err != nil {
		undo()
		slog.Error("decision failed, job restored to queue", "job_id", jobID, "decision", d, "err", err)
		return err
	}
	slog.Info("job decided", "job_id", jobID, "status", d.Target())
	return nil
}

// Restore sends a rejected job back to review by clearing its status.
func (s *ModerationService) Restore(ctx context.Context, jobID string) error {
	undo, _ := s.rejected.remove(jobID)
	if err := s.api.SetFeedback(ctx, s.session.Token(), jobID, nil); err != nil {
		undo()
		slog.Error("restore failed, job kept in rejected list", "job_id", jobID, "err", err)
		return err
	}
	slog.Info("job restored", "job_id", jobID, "status", models.StatusPendingReview)
	return nil
}

// Reanalyze asks the API to classify a pending job again. The local list is
// not touched; callers refetch to see the new status.
func (s *ModerationService) Reanalyze(ctx context.Context, jobID string) error {
	if err := s.api.Analyze(ctx, s.session.Token(), jobID); err != nil {
		slog.Error("reanalyze failed", "job_id", jobID, "err", err)
		return err
	}
	return nil
}
