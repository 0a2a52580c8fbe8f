package validate

import (
	"errors"
	"testing"

	"github.com/SO-Ctrix/Node-Packer/internal/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "react", true},
		{"dash and underscore", "my-pkg_2", true},
		{"digits only", "123", true},
		{"uppercase", "React", false},
		{"space", "my pkg", false},
		{"empty", "", false},
		{"scoped", "@babel/core", false},
		{"dot", "lodash.merge", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.ok && err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.input, err)
			}
			if !tt.ok {
				var verr *models.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("ValidateName(%q) = %v, want ValidationError", tt.input, err)
				}
				if verr.Message != NameMessage {
					t.Errorf("message = %q, want %q", verr.Message, NameMessage)
				}
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"1.2.3", true},
		{"0.0.0", true},
		{"1.2.3-beta.1", true},
		{"1.0.0+build5", true},
		{"1.0.0-rc-1+build", true},
		{"1.2", false},
		{"v1.2.3", false},
		{"1.2.3.4", false},
		{"1.2.3-", false},
		{"1.0.0+build.5", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateVersion(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateVersion(%q) = %v, want ok=%v", tt.input, err, tt.ok)
		}
		if err != nil && err.(*models.ValidationError).Message != VersionMessage {
			t.Errorf("unexpected message %q", err.Error())
		}
	}
}

func TestField(t *testing.T) {
	if err := Field("description", "Anything At All"); err != nil {
		t.Errorf("description should be unvalidated, got %v", err)
	}
	if err := Field("name", "Bad Name"); err == nil {
		t.Error("expected name error")
	}
	if err := Field("version", "1.0.0"); err != nil {
		t.Errorf("unexpected version error %v", err)
	}
}
