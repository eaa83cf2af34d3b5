package services

import (
	"errors"

	"github.com/polawatHuang/mangaara-backend/internal/common"
)

// sanitizeErr passes the terminal sentinels through unchanged and collapses
// everything else to ErrorInternal so driver/SQL details never reach callers.
func sanitizeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorValidation):
		return err
	default:
		return common.ErrorInternal
	}
}
