package posting

import "errors"

var (
	// Domain outcomes
	ErrNoActiveAccount = errors.New("no active account for owner")
	ErrPolicyRejected  = errors.New("submission rejected by destination policy")
	ErrPostNotFound    = errors.New("scheduled post not found")
	ErrPayloadInvalid  = errors.New("invalid submission payload")
	ErrDraftInvalid    = errors.New("invalid post draft")

	// Constructor validation errors
	ErrAccountsNil  = errors.New("account resolver is nil")
	ErrPostsNil     = errors.New("post store is nil")
	ErrEventLogNil  = errors.New("event log is nil")
	ErrEnqueuerNil  = errors.New("enqueuer is nil")
	ErrOptimizerNil = errors.New("optimizer is nil")
)
