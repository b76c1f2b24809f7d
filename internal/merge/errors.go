package merge

import (
	"fmt"

	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/store"
)

// Merge steps reported by PartialMergeError.
const (
	StepRegistry     = "registry"
	StepSkills       = "skills"
	StepHooks        = "hooks"
	StepOutputStyles = "output-styles"
	StepEnvTemplate  = "env-template"
)

// PartialMergeError reports a step that failed after the target had already
// been modified. errors.Is(err, errors.ErrPartialMerge) matches it.
type PartialMergeError struct {
	// Backup is the snapshot taken before the first write.
	Backup *store.BackupHandle

	// Step names the failing step.
	Step string

	Err error
}

func (e *PartialMergeError) Error() string {
	msg := fmt.Sprintf("%s: %s step: %v", errors.ErrPartialMerge, e.Step, e.Err)
	if e.Backup != nil {
		msg += fmt.Sprintf(" (backup at %s)", e.Backup.Path)
	}
	return msg
}

func (e *PartialMergeError) Unwrap() error { return e.Err }

// Is makes the error match errors.ErrPartialMerge.
func (e *PartialMergeError) Is(target error) bool {
	return target == errors.ErrPartialMerge
}

func partial(backup *store.BackupHandle, step string, err error) error {
	return &PartialMergeError{Backup: backup, Step: step, Err: err}
}
