package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/kanko/errors"
)

func TestValidatorOptionalUUID(t *testing.T) {
	if New().OptionalUUID("run_id", "").HasErrors() {
		t.Error("expected no error for empty optional UUID")
	}
	if New().OptionalUUID("run_id", uuid.NewString()).HasErrors() {
		t.Error("expected no error for valid optional UUID")
	}
	if !New().OptionalUUID("run_id", "bad-uuid").HasErrors() {
		t.Error("expected error for invalid optional UUID")
	}
}

func TestValidatorPattern(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"v001", false},
		{"v1", true},
		{"", false},
	}
	for _, tt := range tests {
		v := New().Pattern("api_version", tt.value, `^v[0-9]{3}$`)
		if v.HasErrors() != tt.wantErr {
			t.Errorf("Pattern(%q) HasErrors() = %v, want %v", tt.value, v.HasErrors(), tt.wantErr)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	if New().OneOf("format", "json", []string{"json"}).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	v := New().OneOf("format", "xml", []string{"json"})
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if v.Errors()[0].Message != "must be one of: json" {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
	if New().OneOf("format", "", []string{"json"}).HasErrors() {
		t.Error("expected no error for empty value")
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Pattern("api_version", "v001", `^v[0-9]{3}$`).Validate(); appErr != nil {
		t.Errorf("expected nil for valid input, got %v", appErr)
	}
	if err := New().Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	appErr := New().
		Pattern("api_version", "1", `^v[0-9]{3}$`).
		OneOf("format", "xml", []string{"json"}).
		Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if _, ok := appErr.Details["fields"]; !ok {
		t.Error("expected field details")
	}
	if !strings.Contains(appErr.Message, "api_version") || !strings.Contains(appErr.Message, "format") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	if v.Pattern("api_version", "v001", `^v[0-9]{3}$`).OptionalUUID("run_id", "").OneOf("f", "a", []string{"a"}) != v {
		t.Error("expected chaining to return same validator")
	}
}

type section struct {
	Categories []string      `mapstructure:"categories" validate:"required,min=1,dive,required"`
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent  string
}

type appConfig struct {
	Extract section `mapstructure:"extract"`
}

func TestStructValidate(t *testing.T) {
	valid := section{
		Categories: []string{"温泉"},
		BaseURL:    "https://example.com/api",
		Timeout:    time.Second,
	}

	tests := []struct {
		name     string
		mutate   func(*section)
		wantErr  bool
		contains string
	}{
		{"valid", func(*section) {}, false, ""},
		{"no categories", func(s *section) { s.Categories = nil }, true, "extract.categories: is required"},
		{"empty list", func(s *section) { s.Categories = []string{} }, true, "extract.categories: must contain at least 1 items"},
		{"blank category", func(s *section) { s.Categories = []string{"温泉", ""} }, true, "extract.categories[1]: is required"},
		{"bad url", func(s *section) { s.BaseURL = "not a url" }, true, "extract.base_url: must be a valid URL"},
		{"zero timeout", func(s *section) { s.Timeout = 0 }, true, "extract.timeout: must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Categories = append([]string(nil), valid.Categories...)
			tt.mutate(&s)
			err := Validate(appConfig{Extract: s})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %q", tt.contains, err.Error())
			}
		})
	}
}

func TestStructValidateJSONTags(t *testing.T) {
	type input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}
	if err := Validate(input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	err := Validate(input{Code: "ab"})
	if err == nil || !strings.Contains(err.Error(), "code: must be at least 3 characters") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("UserAgent"); got != "user_agent" {
		t.Errorf("toSnakeCase = %q", got)
	}
}
