package services

import "errors"

var (
	ErrInvalidDecision = errors.New("decision must be accept or reject")
	ErrInvalidFeedback = errors.New("feedback must be up or down")
	ErrInvalidCompany  = errors.New("company needs a name, and manual companies an id")

	// ErrStaleResponse means a newer request for the same view was issued
	// while this one was in flight; its result was dropped.
	ErrStaleResponse = errors.New("response superseded by a newer request")
)
