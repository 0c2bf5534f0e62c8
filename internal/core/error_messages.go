package core

// # Error Codes Reference
//
// User-facing messages with codes for support reference. When a user quotes
// a code, look it up here, check the patterns that trigger it, and read the
// server log for the technical error.
//
// # Feed Errors (FEED001-FEED099)
//
//	FEED001 - Feed unavailable: Could not load the question sheet
//	          Action: Check that the sheet is still published, then reload
//	          Patterns: "feed unavailable"
//
//	FEED002 - Feed too large: The question sheet is larger than allowed
//	          Action: Split the sheet or raise FEED_MAX_BYTES
//	          Patterns: "feed body too large"
//
//	FEED003 - Unreadable feed: The question sheet could not be read
//	          Action: Publish the sheet as CSV or XLSX
//	          Patterns: "open workbook", "read sheet", "unsupported feed format"
//
// # Store Errors (STORE001-STORE099)
//
//	STORE001 - Store failure: Saved data could not be read or written
//	           Action: Please try again
//	           Patterns: "weak list", "preference", "kv_store"
//
//	STORE002 - Store corrupt: The saved data file is damaged
//	           Action: Fix or remove the store file
//	           Patterns: "decode store file"
//
// # Quiz Errors (QUIZ001-QUIZ099)
//
//	QUIZ001 - Session expired: This quiz session no longer exists
//	QUIZ002 - Bad question: That question is not part of this quiz
//	QUIZ003 - Bad choice: That choice does not exist for this question
//	QUIZ004 - Empty subject: There are no questions for this subject
//	QUIZ005 - Bad order: Unknown question order
//
// # Weak List Errors (WEAK001-WEAK099)
//
//	WEAK001 - Item gone: That weak item no longer exists
//
// # Request Errors (RATE001, REQ001-REQ003)
//
//	RATE001 - Rate limited: Too many requests
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//	REQ003  - Bad request: The request could not be understood
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones. Feed
// errors are listed before the request errors because a timed-out fetch
// also mentions the deadline.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgFeedTooLarge = UserMessage{
		Message: "The question sheet is larger than allowed",
		Action:  "Split the sheet or raise FEED_MAX_BYTES",
		Code:    "FEED002",
	}
	msgFeedUnreadable = UserMessage{
		Message: "The question sheet could not be read",
		Action:  "Publish the sheet as CSV or XLSX",
		Code:    "FEED003",
	}
	msgStore = UserMessage{
		Message: "Saved data could not be read or written",
		Action:  "Please try again",
		Code:    "STORE001",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Feed (FEED001-FEED003)
	// =========================================================================
	{pattern: "feed body too large", msg: msgFeedTooLarge},
	{pattern: "open workbook", msg: msgFeedUnreadable},
	{pattern: "read sheet", msg: msgFeedUnreadable},
	{pattern: "unsupported feed format", msg: msgFeedUnreadable},
	{
		pattern: "feed unavailable",
		msg: UserMessage{
			Message: "Could not load the question sheet",
			Action:  "Check that the sheet is still published, then reload",
			Code:    "FEED001",
		},
	},

	// =========================================================================
	// Store (STORE001-STORE002)
	// =========================================================================
	{
		pattern: "decode store file",
		msg: UserMessage{
			Message: "The saved data file is damaged",
			Action:  "Fix or remove the store file",
			Code:    "STORE002",
		},
	},
	{pattern: "weak list", msg: msgStore},
	{pattern: "preference", msg: msgStore},
	{pattern: "kv_store", msg: msgStore},

	// =========================================================================
	// Quiz (QUIZ001-QUIZ005)
	// =========================================================================
	{
		pattern: "quiz session not found",
		msg: UserMessage{
			Message: "This quiz session no longer exists",
			Action:  "Start the quiz again from the subject list",
			Code:    "QUIZ001",
		},
	},
	{
		pattern: "question index out of range",
		msg: UserMessage{
			Message: "That question is not part of this quiz",
			Action:  "Reload the quiz page",
			Code:    "QUIZ002",
		},
	},
	{
		pattern: "unknown choice",
		msg: UserMessage{
			Message: "That choice does not exist for this question",
			Action:  "Pick one of the listed choices",
			Code:    "QUIZ003",
		},
	},
	{
		pattern: "no questions for subject",
		msg: UserMessage{
			Message: "There are no questions for this subject",
			Action:  "Pick another subject or reload the sheet",
			Code:    "QUIZ004",
		},
	},
	{
		pattern: "unknown quiz order",
		msg: UserMessage{
			Message: "Unknown question order",
			Action:  "Use fixed or random",
			Code:    "QUIZ005",
		},
	},

	// =========================================================================
	// Weak list (WEAK001)
	// =========================================================================
	{
		pattern: "weak item position out of range",
		msg: UserMessage{
			Message: "That weak item no longer exists",
			Action:  "Refresh the weak list",
			Code:    "WEAK001",
		},
	},

	// =========================================================================
	// Requests (RATE001, REQ001-REQ003)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
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
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the submitted values and try again",
			Code:    "REQ003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
