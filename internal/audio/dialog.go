package audio

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// ChooseFile asks the user for a soundtrack with the native file dialog.
// A cancelled dialog returns an empty path and no error.
func ChooseFile() (string, error) {
	patterns := make([]string, len(Extensions))
	for i, ext := range Extensions {
		patterns[i] = "*" + ext
	}
	path, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{Name: "Audio", Patterns: patterns}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", fmt.Errorf("file dialog failed: %w", err)
	}
	return path, nil
}
