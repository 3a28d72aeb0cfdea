package common

import "errors"

var (
	// ErrValidation covers bad input rejected before any write: missing or
	// doubled actor, non-positive amounts, illegal status transitions.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unknown transactions, donations, projects and
	// utilizations. Nothing is written when it is returned.
	ErrNotFound = errors.New("record not found")

	// ErrOverAllocation is returned when a utilization would push a
	// donation's remaining balance below zero. The attempted row is not
	// persisted.
	ErrOverAllocation = errors.New("amount exceeds remaining donation balance")

	// ErrGatewayFailure covers a failed or timed-out charge call. The
	// transaction stays pending on timeout and is never retried silently.
	ErrGatewayFailure = errors.New("payment gateway error")

	// ErrAlreadyMaterialized marks a repeat materialization attempt for a
	// transaction that already has its donation.
	ErrAlreadyMaterialized = errors.New("transaction already materialized")
)
