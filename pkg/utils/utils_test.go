package utils

import "testing"

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("CROSSHAIR_TEST_VAR", "set")
	if got := GetEnvWithDefault("CROSSHAIR_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("GetEnvWithDefault() = %q, want %q", got, "set")
	}

	t.Setenv("CROSSHAIR_TEST_VAR", "")
	if got := GetEnvWithDefault("CROSSHAIR_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("GetEnvWithDefault() = %q, want %q", got, "fallback")
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "short token fully masked", token: "abc", want: "****"},
		{name: "boundary length fully masked", token: "12345678", want: "****"},
		{name: "long token keeps edges", token: "sk-abcdefghijklmnop", want: "sk-a...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskToken(tt.token); got != tt.want {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
