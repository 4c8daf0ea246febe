package quiz

import "fmt"

// ErrPublish wraps a failure to publish the quiz form. It aborts the request.
type ErrPublish struct {
	Err error
}

func (e *ErrPublish) Error() string {
	return fmt.Sprintf("publish quiz: %v", e.Err)
}

func (e *ErrPublish) Unwrap() error { return e.Err }

// ErrEmail wraps a failure to deliver the notification. It is recorded on the
// Result and never returned from Create.
type ErrEmail struct {
	Err error
}

func (e *ErrEmail) Error() string {
	return fmt.Sprintf("send quiz email: %v", e.Err)
}

func (e *ErrEmail) Unwrap() error { return e.Err }
