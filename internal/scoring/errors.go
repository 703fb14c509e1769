package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValidationError reports a caller supplied value that cannot be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AlreadyCompleteError is returned when a finalized response is modified again.
type AlreadyCompleteError struct {
	ResponseID uint
}

func (e *AlreadyCompleteError) Error() string {
	return fmt.Sprintf("response %d is already complete", e.ResponseID)
}

// IncompleteAnswersError lists the questions still missing an answer.
type IncompleteAnswersError struct {
	Missing []int
}

func (e *IncompleteAnswersError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = strconv.Itoa(id)
	}
	return "missing answers for questions: " + strings.Join(ids, ", ")
}

// ConfigurationError marks an assessment version whose stored data is unusable.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "assessment configuration: " + e.Reason
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func newIncompleteAnswersError(missing []int) error {
	sort.Ints(missing)
	return &IncompleteAnswersError{Missing: missing}
}
