package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/sheetquiz/internal/feed"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "feed unavailable",
			err:      fmt.Errorf("reload: %w", fmt.Errorf("%w: feed returned status 404", feed.ErrFeedUnavailable)),
			wantCode: "FEED001",
		},
		{
			name:     "feed too large wins over unavailable",
			err:      fmt.Errorf("%w: %w", feed.ErrFeedUnavailable, feed.ErrTooLarge),
			wantCode: "FEED002",
		},
		{
			name:     "feed timeout is still a feed error",
			err:      fmt.Errorf("%w: %w", feed.ErrFeedUnavailable, context.DeadlineExceeded),
			wantCode: "FEED001",
		},
		{
			name:     "bad workbook",
			err:      errors.New("feed unavailable: open workbook: zip: not a valid zip file"),
			wantCode: "FEED003",
		},
		{
			name:     "weak list store failure",
			err:      errors.New("save weak list: disk full"),
			wantCode: "STORE001",
		},
		{
			name:     "preference store failure",
			err:      errors.New("save preference theme: connection refused"),
			wantCode: "STORE001",
		},
		{
			name:     "corrupt store file",
			err:      errors.New("load weak list: decode store file /x.json: invalid character"),
			wantCode: "STORE002",
		},
		{
			name:     "session not found",
			err:      fmt.Errorf("%w: abc", ErrSessionNotFound),
			wantCode: "QUIZ001",
		},
		{
			name:     "question index",
			err:      fmt.Errorf("%w: 9", ErrQuestionIndex),
			wantCode: "QUIZ002",
		},
		{
			name:     "unknown choice",
			err:      fmt.Errorf("%w: \"E\"", ErrUnknownChoice),
			wantCode: "QUIZ003",
		},
		{
			name:     "no questions",
			err:      fmt.Errorf("%w: \"Art\"", ErrNoQuestions),
			wantCode: "QUIZ004",
		},
		{
			name:     "unknown order",
			err:      fmt.Errorf("%w: \"sideways\"", quiz.ErrUnknownOrder),
			wantCode: "QUIZ005",
		},
		{
			name:     "weak position",
			err:      fmt.Errorf("%w: 4 (have 2)", weak.ErrOutOfRange),
			wantCode: "WEAK001",
		},
		{
			name:     "rate limit",
			err:      errors.New("rate limit exceeded"),
			wantCode: "RATE001",
		},
		{
			name:     "request cancelled",
			err:      context.Canceled,
			wantCode: "REQ001",
		},
		{
			name:     "malformed request",
			err:      errors.New("invalid request: font delta \"big\""),
			wantCode: "REQ003",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("FEED UNAVAILABLE"),
			wantCode: "FEED001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError() returned an empty message")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(fmt.Errorf("%w: x", ErrSessionNotFound))
	want := "This quiz session no longer exists (Code: QUIZ001). Start the quiz again from the subject list"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrNoQuestions, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
