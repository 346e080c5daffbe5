package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown or was abandoned.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrEmptyUsername is returned when a quiz is started without a username.
	ErrEmptyUsername = errors.New("username must not be empty")
	// ErrAlreadyStarted is returned when Start is called on a running session.
	ErrAlreadyStarted = errors.New("quiz already started")
	// ErrSessionFinished is returned when a finished session is restarted; create a new one instead.
	ErrSessionFinished = errors.New("quiz session finished")
	// ErrNotInProgress is returned when an answer arrives outside the InProgress state.
	ErrNotInProgress = errors.New("quiz not in progress")
	// ErrCatalogTooSmall indicates the question bank holds fewer than four distinct capitals.
	ErrCatalogTooSmall = errors.New("catalog needs at least four distinct capitals")
	// ErrCatalogNotFound indicates the capital catalog could not be loaded.
	ErrCatalogNotFound = errors.New("capital catalog not found")
	// ErrInvalidTier indicates an unknown difficulty tier.
	ErrInvalidTier = errors.New("invalid tier")
	// ErrInvalidPin indicates a PIN that is not exactly four digits.
	ErrInvalidPin = errors.New("pin must be exactly four digits")
	// ErrPinRequired is returned when a username is PIN-protected and no PIN was supplied.
	ErrPinRequired = errors.New("pin required for this username")
	// ErrPinMismatch is returned when the supplied PIN does not verify.
	ErrPinMismatch = errors.New("pin does not match")
	// ErrPinAlreadySet is returned when setting a PIN on a username that already has one.
	ErrPinAlreadySet = errors.New("pin already set for this username")
	// ErrNegativeScore rejects leaderboard submissions below zero.
	ErrNegativeScore = errors.New("score must not be negative")
)
