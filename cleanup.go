package htmltopdf

import (
	"errors"
	"fmt"

	"github.com/alnah/go-htmltopdf/internal/fileutil"
)

// removeTempFiles deletes every path. Files already gone are ignored;
// other failures are collected and returned together as ErrTempFile.
func removeTempFiles(paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := fileutil.RemoveIfExists(path); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: cleanup: %w", ErrTempFile, errors.Join(errs...))
}
