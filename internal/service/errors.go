package service

import (
	"errors"

	"mindset-backend/internal/repository"
)

var (
	// ErrNotFound covers missing rows and rows owned by someone else.
	ErrNotFound = repository.ErrNotFound
	// ErrForbidden is returned when the caller has no active membership.
	ErrForbidden = errors.New("no active membership in organization")
	// ErrAssessmentInactive blocks new responses against retired versions.
	ErrAssessmentInactive = errors.New("assessment version is not active")
	// ErrResponseOpen is returned for result views that need a completed response.
	ErrResponseOpen = errors.New("response is not complete")
)
