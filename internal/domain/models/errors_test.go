package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestPipelineErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := DataUnavailable(StageFetch, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if KindOf(err) != KindDataUnavailable {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if StageOf(err) != StageFetch {
		t.Fatalf("stage = %s", StageOf(err))
	}

	wrapped := fmt.Errorf("run: %w", err)
	if KindOf(wrapped) != KindDataUnavailable {
		t.Fatalf("kind lost through outer wrap")
	}
	if StageOf(wrapped) != StageFetch {
		t.Fatalf("stage lost through outer wrap")
	}
}

func TestKindOfUntyped(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("untyped errors have no kind")
	}
	if StageOf(nil) != "" {
		t.Fatalf("nil has no stage")
	}
}

func TestErrorMessageNamesStageAndKind(t *testing.T) {
	err := WriteFailure(errors.New("rename failed"))
	msg := err.Error()
	if msg != "publish: write_failure: rename failed" {
		t.Fatalf("message = %q", msg)
	}
}
