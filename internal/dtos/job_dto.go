package dtos

import "github.com/justsurfingit/jobboard-web/internal/models"

type JobCreationRequest struct {
	Title          string `json:"JobTitle" form:"JobTitle" binding:"required"`
	ApplicationURL string `json:"ApplicationURL" form:"ApplicationURL" binding:"required,url"`
	Company        string `json:"Company" form:"Company" binding:"required"`

	// Optional Fields
	// Location defaults to "Germany" and ContractType to "Full-time".
	Location        string `json:"Location" form:"Location"`
	Department      string `json:"Department" form:"Department"`
	ContractType    string `json:"ContractType" form:"ContractType"`
	ExperienceLevel string `json:"ExperienceLevel" form:"ExperienceLevel"`
	PostedDate      string `json:"PostedDate" form:"PostedDate"`
	Description     string `json:"Description" form:"Description"`
	GermanRequired  bool   `json:"GermanRequired"`
}

type DecisionRequest struct {
	Decision string `json:"decision" form:"decision" binding:"required"`
}

// FeedbackRequest carries a thumbs signal. A nil Status resets the job.
type FeedbackRequest struct {
	Status *string `json:"status"`
}

// JobList is the envelope the /jobs and review endpoints answer with.
type JobList struct {
	Jobs      []models.Job `json:"jobs"`
	TotalJobs int          `json:"totalJobs,omitempty"`
}
