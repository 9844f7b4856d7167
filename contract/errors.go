package contract

import (
	"errors"
	"fmt"
)

// ErrViolation matches every *ViolationError via errors.Is.
var ErrViolation = errors.New("contract violation")

// Stage says which side of the call broke the contract.
type Stage string

const (
	StageRequest  Stage = "request"
	StageResponse Stage = "response"
)

type Reason string

const (
	ReasonPrecondition    Reason = "precondition"
	ReasonUnknownField    Reason = "unknown_field"
	ReasonMissingRequired Reason = "missing_required"
	ReasonTypeMismatch    Reason = "type_mismatch"
	ReasonMissingRoot     Reason = "missing_root"
)

// ViolationError reports data that does not match its declared schema.
type ViolationError struct {
	Stage  Stage
	Reason Reason
	// Field is the dotted path of the offending field, when there is one.
	Field   string
	Message string
}

func (e *ViolationError) Error() string {
	return e.Message
}

func (e *ViolationError) Is(target error) bool {
	return target == ErrViolation
}

func requestViolation(reason Reason, field, format string, args ...interface{}) *ViolationError {
	return &ViolationError{Stage: StageRequest, Reason: reason, Field: field, Message: fmt.Sprintf(format, args...)}
}

func responseViolation(reason Reason, field, format string, args ...interface{}) *ViolationError {
	return &ViolationError{Stage: StageResponse, Reason: reason, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError is returned instead of a formatted result when the upstream
// reports that the entity being created already exists. It carries enough
// of the existing entity for the caller to reconcile.
type ConflictError struct {
	Message   string `json:"message"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entityId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func (e *ConflictError) Error() string {
	return e.Message
}
