package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When a dashboard section cannot render, the user sees the message, the action
// and the code; the technical error goes to the server log.
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - Dataset unavailable: The dataset file could not be read
//	          Action: Check that the dataset file exists and is readable
//	          Match: errors.Is(err, ErrDataUnavailable), "no such file"
//
//	DATA002 - Dataset malformed: The dataset file could not be parsed
//	          Action: Make sure the file is a comma-separated table with a header row
//	          Patterns: "parse csv", "empty header", "no data rows", "empty file",
//	          "encoding error"
//
//	DATA003 - Unsupported format: The dataset file type is not supported
//	          Action: Use a .csv, .tsv or .xlsx file
//	          Patterns: "unsupported file type"
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Column not found: An expected column is missing from the dataset
//	         Action: Compare the dataset header with the expected columns
//	         Match: errors.Is(err, ErrSchemaMismatch)
//
//	SCH002 - No service columns: The dataset has no service usage columns
//	         Action: Check that service columns follow the grouping columns
//	         Patterns: "service columns"
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - No matching data: The selected filters match no records
//	         Action: Choose a different group or add services
//	         Match: errors.Is(err, ErrEmptySelection)
//
//	SEL002 - Invalid dimension: Unknown grouping dimension
//	         Action: Use sex or age
//	         Patterns: "invalid dimension"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded", "timeout"
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
//	AUTH001 - Unauthorized: Missing or invalid API key
//	          Patterns: "api key"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Typed errors are checked first with errors.Is, so wrapping never hides
// them. Remaining errors are matched case-insensitively with strings.Contains;
// the first matching pattern wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgDataUnavailable = UserMessage{
		Message: "The dataset could not be read",
		Action:  "Check that the dataset file exists and is readable",
		Code:    "DATA001",
	}
	msgSchemaMismatch = UserMessage{
		Message: "An expected column is missing from the dataset",
		Action:  "Compare the dataset header with the expected columns",
		Code:    "SCH001",
	}
	msgNoServiceColumns = UserMessage{
		Message: "The dataset has no service usage columns",
		Action:  "Check that service columns follow the grouping columns",
		Code:    "SCH002",
	}
	msgEmptySelection = UserMessage{
		Message: "No data matches the selected filters",
		Action:  "Choose a different group or add services",
		Code:    "SEL001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: more specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "service columns",
		msg:     msgNoServiceColumns,
	},
	{
		pattern: "column not found",
		msg:     msgSchemaMismatch,
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "The dataset file type is not supported",
			Action:  "Use a .csv, .tsv or .xlsx file",
			Code:    "DATA003",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "The dataset file could not be parsed",
			Action:  "Make sure the file is a comma-separated table with a header row",
			Code:    "DATA002",
		},
	},
	{
		pattern: "empty header",
		msg: UserMessage{
			Message: "The dataset file could not be parsed",
			Action:  "Make sure the file is a comma-separated table with a header row",
			Code:    "DATA002",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The dataset file could not be parsed",
			Action:  "Make sure the file is a comma-separated table with a header row",
			Code:    "DATA002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The dataset file is empty",
			Action:  "Make sure the file is a comma-separated table with a header row",
			Code:    "DATA002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "The dataset file has an unknown text encoding",
			Action:  "Save the file as UTF-8 or CP949",
			Code:    "DATA002",
		},
	},
	{
		pattern: "no such file",
		msg:     msgDataUnavailable,
	},
	{
		pattern: "invalid dimension",
		msg: UserMessage{
			Message: "Unknown grouping dimension",
			Action:  "Use sex or age",
			Code:    "SEL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Send a valid key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	// Typed errors first; their text varies with the source.
	var sme *SchemaMismatchError
	switch {
	case errors.As(err, &sme):
		msg := msgSchemaMismatch
		if m, ok := sme.Primary(); ok {
			if m.Role == "service columns" {
				return msgNoServiceColumns
			}
			msg.Message = fmt.Sprintf("Expected column %s is missing from the dataset", m.String())
		}
		return msg
	case errors.Is(err, ErrEmptySelection):
		return msgEmptySelection
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.Is(err, ErrDataUnavailable) {
		return msgDataUnavailable
	}
	return defaultMessage
}
