package domain

import "errors"

var (
	// ErrConnUnavailable means a unit of work was used without a bound connection.
	ErrConnUnavailable = errors.New("connection unavailable")

	// ErrInvalidArgument means caller-supplied data failed coercion. It is
	// always detected before any statement reaches the store.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownProcedure means the dispatched name is not a registered procedure.
	ErrUnknownProcedure = errors.New("unknown procedure")

	// ErrProvisioningFailed means fixture creation aborted mid-batch and was
	// rolled back.
	ErrProvisioningFailed = errors.New("provisioning failed")
)
