package errors

import "fmt"

// Error codes
const (
	CodePipelineError = "PIPELINE_ERROR"
	CodeAPIError      = "API_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeCache         = "CACHE_ERROR"
	CodeStore         = "STORE_ERROR"
	CodeResolution    = "RESOLUTION_ERROR"
	CodeKeyRotation   = "KEY_ROTATION_ERROR"
	CodeInsight       = "INSIGHT_ERROR"
)

type PipelineError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func NewPipelineError(message, code string, statusCode int, context map[string]any) *PipelineError {
	return &PipelineError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

type APIError struct {
	*PipelineError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*PipelineError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*PipelineError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StoreError struct {
	*PipelineError
	Operation string
	ChannelID string
}

func NewStoreError(message, operation, channelID string, cause error) *StoreError {
	return &StoreError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: 500,
			Context: map[string]any{
				"operation":  operation,
				"channel_id": channelID,
			},
			Cause: cause,
		},
		Operation: operation,
		ChannelID: channelID,
	}
}

// ResolutionError indicates that an input query could not be mapped to a channel.
type ResolutionError struct {
	*PipelineError
	Query string
}

func NewResolutionError(message, query string, cause error) *ResolutionError {
	return &ResolutionError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeResolution,
			StatusCode: 404,
			Context: map[string]any{
				"query": query,
			},
			Cause: cause,
		},
		Query: query,
	}
}

type KeyRotationError struct {
	*APIError
}

func NewKeyRotationError(message string, statusCode int, context map[string]any) *KeyRotationError {
	return &KeyRotationError{
		APIError: &APIError{
			PipelineError: &PipelineError{
				Message:    message,
				Code:       CodeKeyRotation,
				StatusCode: statusCode,
				Context:    context,
			},
		},
	}
}

// InsightError indicates the language model path failed after every key and
// provider was tried; callers should switch to the rule-based generator.
type InsightError struct {
	*PipelineError
	Provider string
}

func NewInsightError(message, provider string, cause error) *InsightError {
	return &InsightError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeInsight,
			StatusCode: 502,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}
