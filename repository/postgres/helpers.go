package postgres

import (
	"errors"

	"github.com/taskdeck/bot/domain"
)

// storageErr classifies driver failures as StorageUnavailable while letting
// already-classified domain errors pass through.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
}
