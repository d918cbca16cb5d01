package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "T1", false},
		{"valid uuid", "2f1c7c2e-8a3b-4d4e-9f55-0c6f1d2a9b7e", false},
		{"valid with underscore", "task_1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategoryKey(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"FE", false},
		{"DevOps", false},
		{"data_eng", false},
		{"ml-ops", false},
		{"", true},
		{"has space", true},
		{"semi;colon", true},
		{strings.Repeat("x", 33), true},
	}

	for _, tt := range tests {
		err := ValidateCategoryKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCategoryKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		schemes []string
		wantErr bool
	}{
		{"redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss://cache:6380", []string{"redis", "rediss"}, false},
		{"mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"http://localhost", []string{"redis"}, true},
		{"", []string{"redis"}, true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url, tt.schemes...)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

type sample struct {
	Name  string `validate:"required"`
	Count int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(ErrCodeInvalidInput, sample{Name: "x", Count: 1}); err != nil {
		t.Fatalf("valid struct: %v", err)
	}

	err := ValidateStruct(ErrCodeInvalidTask, sample{Count: -1})
	if err == nil {
		t.Fatal("invalid struct should fail")
	}
	if !Is(err, ErrCodeInvalidTask) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTask)
	}
	msg := UserMessage(err)
	if !strings.Contains(msg, "Name is required") {
		t.Errorf("message should mention Name: %q", msg)
	}
	if !strings.Contains(msg, "Count must be gte 0") {
		t.Errorf("message should mention Count: %q", msg)
	}
}
