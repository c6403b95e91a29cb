package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuestion rejects queries whose question is empty or whitespace.
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrEmptyCorpus reports a stats or query request with zero loaded
	// documents.
	ErrEmptyCorpus = errors.New("no documents loaded")
)

// NotReadyError reports an operation attempted before every pipeline stage
// was attached. Missing names the absent stages in pipeline order.
type NotReadyError struct {
	Missing []string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("pipeline not ready: missing %s", strings.Join(e.Missing, ", "))
}
