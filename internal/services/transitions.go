package services

import (
	"fmt"

	"github.com/justsurfingit/jobboard-web/internal/models"
)

// Moderation status graph:
//
//	pending_review ──accept──► active
//	      ▲   │
//	      │   └─────reject───► rejected
//	      └─────restore────────────┘
//
// active has no outgoing moderation transitions.

// Decision is an admin verdict on a pending job.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision converts a raw string to a Decision. It is case-sensitive.
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	switch d {
	case DecisionAccept, DecisionReject:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
}

// Target is the status a decision moves a pending job to.
func (d Decision) Target() models.JobStatus {
	if d == DecisionAccept {
		return models.StatusActive
	}
	return models.StatusRejected
}

var validTransitions = map[models.JobStatus][]models.JobStatus{
	models.StatusPendingReview: {models.StatusActive, models.StatusRejected},
	models.StatusRejected:      {models.StatusPendingReview},
}

// IsTransitionAllowed reports whether the client may move a job from → to.
func IsTransitionAllowed(from, to models.JobStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
