package crawler

import "errors"

var (
	// ErrPageNotReady means the expected element never appeared.
	ErrPageNotReady = errors.New("page not ready")
	// ErrNotFound means the page no longer exists.
	ErrNotFound = errors.New("page not found")
	// ErrBlocked means an anti-bot challenge is in the way.
	ErrBlocked = errors.New("blocked by challenge")
	// ErrTransient covers failures worth retrying after a pause.
	ErrTransient = errors.New("transient failure")
	// ErrExtraction means the page loaded but its structure is missing.
	ErrExtraction = errors.New("extraction failed")
	ErrNoSeeds    = errors.New("no seeds")
)
