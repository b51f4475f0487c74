package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by the services. Handlers classify with errors.Is.
var (
	// ErrValidation marks malformed or missing input. Nothing has been written.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks a referenced user, match or prediction that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation (duplicate prediction or username).
	ErrConflict = errors.New("conflict")

	// ErrStorage marks a failure of the persistence layer.
	ErrStorage = errors.New("storage failure")

	ErrMatchFinished     = fmt.Errorf("%w: match is already finished", ErrValidation)
	ErrPredictionsClosed = fmt.Errorf("%w: match has started or starts in less than the prediction cutoff", ErrValidation)
	ErrUnknownScorer     = fmt.Errorf("%w: best scorer must be a player of the match", ErrValidation)

	// ErrExportDisabled is returned when no object store is configured.
	ErrExportDisabled = errors.New("leaderboard export is not configured")
)

// lookupError turns a failed single-record lookup into ErrNotFound or ErrStorage.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return storageError("load "+what, err)
}

// storageError wraps a GORM error. Unique-index violations become ErrConflict.
func storageError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: duplicate record", ErrConflict, op)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
