package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobboard-web/internal/dtos"
)

const (
	DefaultLocation     = "Germany"
	DefaultContractType = "Full-time"
)

// JobAPI creates manual jobs.
type JobAPI interface {
	CreateJob(ctx context.Context, token string, req dtos.JobCreationRequest) error
}

type JobService struct {
	api     JobAPI
	session TokenSource
}

func NewJobService(api JobAPI, session TokenSource) *JobService {
	return &JobService{
		api:     api,
		session: session,
	}
}

// CreateJob submits a job entered by hand. Missing location and contract
// type get the board's defaults; manual jobs never claim German is required.
func (s *JobService) CreateJob(ctx context.Context, req dtos.JobCreationRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.ApplicationURL = strings.TrimSpace(req.ApplicationURL)
	if strings.TrimSpace(req.Location) == "" {
		req.Location = DefaultLocation
	}
	if strings.TrimSpace(req.ContractType) == "" {
		req.ContractType = DefaultContractType
	}
	req.GermanRequired = false

	if err := s.api.CreateJob(ctx, s.session.Token(), req); err != nil {
		slog.Error("create job failed", "company", req.Company, "title", req.Title, "err", err)
		return err
	}
	slog.Info("manual job created", "company", req.Company, "title", req.Title)
	return nil
}
