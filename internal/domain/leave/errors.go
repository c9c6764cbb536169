package leave

import "errors"

var (
	ErrMappingNotFound  = errors.New("Leave request calendar event not found")
	ErrSyncInProgress   = errors.New("Sync already in progress")
	ErrMissingEmployee  = errors.New("Leave request employee could not be resolved")
	ErrMissingPolicy    = errors.New("Leave request policy could not be resolved")
	ErrInvalidDateRange = errors.New("Invalid date range")
)
