package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/odysseus0/internlog/internal/store"
)

// ErrDangerousContent is returned by `check --fail` when the input matches a
// danger signature.
var ErrDangerousContent = errors.New("dangerous content")

const (
	exitInternal     = 1
	exitInvalidInput = 2
	exitNotFound     = 3
	exitDangerous    = 4
)

func ErrorExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDangerousContent):
		return exitDangerous
	case errors.Is(err, store.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	case looksLikeUsageError(err):
		return exitInvalidInput
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrDangerousContent):
		return fmt.Sprintf("Error [dangerous]: %v", err)
	case errors.Is(err, store.ErrInvalidInput), looksLikeUsageError(err):
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("Error [not-found]: %v", err)
	default:
		return fmt.Sprintf("Error [internal]: %v", err)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}

// looksLikeUsageError catches cobra's own argument errors and ours that are
// raised before any sentinel is attached.
func looksLikeUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"invalid id",
		"invalid output format",
		"unknown sanitize profile",
		"unknown command",
		"unknown flag",
		"accepts ",
		"requires at least",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
