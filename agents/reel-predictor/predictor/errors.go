package predictor

import (
	"errors"
	"fmt"
)

// Messages shown to the user
const (
	MsgMissingMediaAndCaption = "Please select a video file and enter a caption."
	MsgMissingMedia           = "Please select a video file."
	MsgMissingCaption         = "Please enter a caption."
	MsgAnalysisFailed         = "Analysis failed"
)

// ErrInFlight is returned by Submit while another request is still running
var ErrInFlight = errors.New("analysis already in progress")

// ErrNotVideo is returned by LoadMedia for files that are not video/*
var ErrNotVideo = errors.New("file is not a video")

// ErrorKind tells where a submission failed
type ErrorKind int

const (
	// KindValidation is a local check that failed before any network activity
	KindValidation ErrorKind = iota
	// KindService is a non-success HTTP status from the analyzer
	KindService
	// KindTransport is a failure before a usable response existed
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the single user-visible message of a failed submission
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int // set for KindService
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func serviceError(status int, msg string) *Error {
	if msg == "" {
		msg = MsgAnalysisFailed
	}
	return &Error{Kind: KindService, Message: msg, StatusCode: status}
}

func transportError(err error) *Error {
	msg := MsgAnalysisFailed
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}
