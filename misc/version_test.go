package misc

import (
	"os"
	"testing"
)

func TestGetAppName(t *testing.T) {
	saved := os.Args
	defer func() { os.Args = saved }()

	tests := []struct {
		arg0 string
		want string
	}{
		{"cssfix", "cssfix"},
		{"/usr/local/bin/cssfix", "cssfix"},
		{"cssfix.exe", "cssfix"},
	}
	for _, tt := range tests {
		os.Args = []string{tt.arg0}
		if got := GetAppName(); got != tt.want {
			t.Errorf("GetAppName() for %q = %q, want %q", tt.arg0, got, tt.want)
		}
	}
}

func TestBuildInfoDefaults(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() returned empty string")
	}
}
