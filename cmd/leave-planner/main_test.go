package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "holidays.csv")
	if err := os.WriteFile(existing, []byte("Date\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"existing", existing, ""},
		{"empty", "", "holiday file is required (argument or input.holidays_file)"},
		{"missing", filepath.Join(dir, "missing.csv"), "not found"},
		{"directory", dir, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireFile("holiday", tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("requireFile() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("requireFile() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
