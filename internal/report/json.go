package report

import (
	"fmt"

	"github.com/DjordjeVuckovic/mcqa-filter/pkg/fileutil"
)

func WriteJSON(r *Report, path string) error {
	if err := fileutil.WriteJSONAtomic(path, r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
