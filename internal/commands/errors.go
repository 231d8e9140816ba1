package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Portfolio specific categories, checked by transports with goerrors.IsCategory.
const (
	CategoryFeatureDisabled goerrors.Category = "portfolio_feature_disabled"
	CategoryPayloadTooLarge goerrors.Category = "portfolio_payload_too_large"
)

const (
	validationFailedCode = "PORTFOLIO_COMMAND_INVALID"
	payloadTooLargeCode  = "PORTFOLIO_COMMAND_PAYLOAD_TOO_LARGE"
	featureDisabledCode  = "PORTFOLIO_FEATURE_DISABLED"
	canceledCode         = "PORTFOLIO_COMMAND_CANCELED"
	timeoutCode          = "PORTFOLIO_COMMAND_TIMEOUT"
	contextErrorCode     = "PORTFOLIO_COMMAND_CONTEXT_ERROR"
	executeFailedCode    = "PORTFOLIO_COMMAND_FAILED"
)

// ErrPayloadTooLarge is returned by message validation when an input exceeds
// the size a command accepts.
var ErrPayloadTooLarge = errors.New("commands: payload too large")

// FeatureDisabled tags cause as a switched-off feature. Handlers return it
// from their gates so transports can answer 503 without knowing the command.
func FeatureDisabled(feature string, cause error) error {
	if cause == nil {
		cause = errors.New("commands: " + feature + " disabled")
	}
	return goerrors.Wrap(cause, CategoryFeatureDisabled, feature+" is disabled").
		WithTextCode(featureDisabledCode)
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPayloadTooLarge) {
		if goerrors.IsCategory(err, CategoryPayloadTooLarge) {
			return err
		}
		return goerrors.Wrap(err, CategoryPayloadTooLarge, "command payload too large").
			WithTextCode(payloadTooLargeCode)
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(validationFailedCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode(canceledCode)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(timeoutCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(contextErrorCode)
	}
}

// wrapExecuteError keeps categories set by the handler body and tags
// everything else as a command failure.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(executeFailedCode)
}
