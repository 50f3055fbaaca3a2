package models

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline stage an error originated from.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageCompute  Stage = "compute"
	StageClassify Stage = "classify"
	StageRender   Stage = "render"
	StagePublish  Stage = "publish"
)

// ErrorKind is the failure taxonomy surfaced to the caller.
type ErrorKind string

const (
	KindDataUnavailable ErrorKind = "data_unavailable"
	KindDataInvalid     ErrorKind = "data_invalid"
	KindRenderFailure   ErrorKind = "render_failure"
	KindWriteFailure    ErrorKind = "write_failure"
)

// PipelineError carries the stage and kind alongside the cause so the
// exit message can name both.
type PipelineError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error { return e.Err }

// DataUnavailable wraps err as a provider availability failure.
func DataUnavailable(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Kind: KindDataUnavailable, Err: err}
}

// DataInvalid wraps err as an invariant/schema violation.
func DataInvalid(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Kind: KindDataInvalid, Err: err}
}

// RenderFailure wraps err as an artifact construction failure.
func RenderFailure(err error) *PipelineError {
	return &PipelineError{Stage: StageRender, Kind: KindRenderFailure, Err: err}
}

// WriteFailure wraps err as a publish I/O failure.
func WriteFailure(err error) *PipelineError {
	return &PipelineError{Stage: StagePublish, Kind: KindWriteFailure, Err: err}
}

// KindOf extracts the error kind, or "" for untyped errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// StageOf extracts the failing stage, or "" for untyped errors.
func StageOf(err error) Stage {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}
