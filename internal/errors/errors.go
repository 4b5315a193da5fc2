package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRelayRejected = errors.New("relay rejected notification")
)

// ProblemSeparator joins validation problems in messages.
const ProblemSeparator = "; "

// ValidationError carries every problem found in a submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ProblemSeparator)
}

// NewValidation returns nil when there are no problems.
func NewValidation(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// ChannelError is a failure of the persistence or notification channel.
type ChannelError struct {
	Channel string
	Op      string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Channel, e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

func NewChannel(channel, op string, err error) error {
	return &ChannelError{Channel: channel, Op: op, Err: err}
}

func NewInternal(format string, a ...interface{}) error {
	return fmt.Errorf("INTERNAL: "+format, a...)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsChannel(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce)
}
