package analyzer

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDescription = errors.New("description is empty")
	ErrEmptyImage       = errors.New("image is empty")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// UpstreamError is a failed collaborator call, or collaborator text the
// structured-output parser could not read. It is a server-side failure,
// unlike nutrition.AnalysisParseError.
type UpstreamError struct {
	Provider string
	Stage    string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
