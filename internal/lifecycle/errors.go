package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrDraftExists      = errors.New("a draft version already exists; edit, publish or archive it first")
	ErrNotDraft         = errors.New("only draft versions can be changed or published")
	ErrNotPublished     = errors.New("only published versions allow this action")
	ErrPrimaryArchive   = errors.New("primary versions cannot be archived")
	ErrPrimaryInvariant = errors.New("primary version check failed after update")
	ErrInvalidVersion   = errors.New("invalid version number")
	ErrUnboundDocument  = errors.New("document version has no document id")
)

// PreconditionError is a local refusal raised before any write request
type PreconditionError struct {
	Op        string
	KBID      string
	VersionID string
	Err       error
}

func (e *PreconditionError) Error() string {
	if e.VersionID != "" {
		return fmt.Sprintf("%s (kb %s, version %s): %v", e.Op, e.KBID, e.VersionID, e.Err)
	}
	return fmt.Sprintf("%s (kb %s): %v", e.Op, e.KBID, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// IsPrecondition reports whether err is a local refusal
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
