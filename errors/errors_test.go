package errors

import (
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "test.Op", nil, "test message")

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}
	if err.Error() != "test message" {
		t.Errorf("expected error string 'test message', got '%s'", err.Error())
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("cause error")
	err := Validation("test.Op", cause, "test message")

	expected := "test message: cause error"
	if err.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		isValid     bool
		isCancelled bool
		isTimeout   bool
	}{
		{
			name:    "validation error",
			err:     Validation("op", nil, "bad input"),
			isValid: true,
		},
		{
			name:        "cancelled error",
			err:         Cancelled("op", "aborted"),
			isCancelled: true,
		},
		{
			name:      "timeout error",
			err:       Timeout("op", nil, "too slow"),
			isTimeout: true,
		},
		{
			name: "wrapped validation error",
			err:  fmt.Errorf("outer: %w", Validation("op", nil, "bad input")),
			// predicates must see through wrapping
			isValid: true,
		},
		{
			name: "standard error",
			err:  fmt.Errorf("plain"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.isValid {
				t.Errorf("IsValidation() = %v, want %v", got, tt.isValid)
			}
			if got := IsCancelled(tt.err); got != tt.isCancelled {
				t.Errorf("IsCancelled() = %v, want %v", got, tt.isCancelled)
			}
			if got := IsTimeout(tt.err); got != tt.isTimeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.isTimeout)
			}
		})
	}
}

func TestCode(t *testing.T) {
	if got := Code(Transcription("op", nil, "all backends failed")); got != CodeTranscription {
		t.Errorf("Code() = %s, want %s", got, CodeTranscription)
	}
	if got := Code(fmt.Errorf("plain")); got != CodeProcessing {
		t.Errorf("Code() for plain error = %s, want %s", got, CodeProcessing)
	}
}

func TestAggregate(t *testing.T) {
	agg := NewAggregate("test.Op")
	if agg.Len() != 0 {
		t.Fatalf("new aggregate length = %d, want 0", agg.Len())
	}

	agg.Add("whisper", fmt.Errorf("timed out"))
	agg.Add("speechsvc", fmt.Errorf("connection refused"))

	if agg.Len() != 2 {
		t.Fatalf("aggregate length = %d, want 2", agg.Len())
	}

	expected := "whisper: timed out; speechsvc: connection refused"
	if agg.Error() != expected {
		t.Errorf("aggregate error = %q, want %q", agg.Error(), expected)
	}
}
