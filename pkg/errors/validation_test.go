package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "n1", false},
		{"negative minted", "w-12", false},
		{"uuid style", "n3f2b9c1e-8a7d-4f6e-9b0a-1c2d3e4f5a6b", false},
		{"empty", "", true},
		{"whitespace", "n 1", true},
		{"control", "n\x001", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateSessionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "downtown", false},
		{"dashes", "survey-2024-03", false},
		{"empty", "", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Name  string  `validate:"required"`
		Angle float64 `validate:"gt=0,lte=180"`
		Kind  string  `validate:"omitempty,oneof=point line"`
	}

	tests := []struct {
		name    string
		in      req
		wantErr string
	}{
		{"valid", req{Name: "a", Angle: 20}, ""},
		{"missing name", req{Angle: 20}, "name is required"},
		{"angle too large", req{Name: "a", Angle: 400}, "angle must be at most 180"},
		{"bad kind", req{Name: "a", Angle: 1, Kind: "area"}, "kind must be one of: point line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateStruct() error = %v, want %q", err, tt.wantErr)
			}
			if !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateStruct() code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
