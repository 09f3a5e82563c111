package database

import (
	"exam_platform_backend/internal/config"
	"testing"
)

func TestShouldMigrate(t *testing.T) {
	testCases := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug migrates by default", "debug", false, true},
		{"empty mode migrates by default", "", false, true},
		{"release skips by default", "release", false, false},
		{"release with force flag migrates", "release", true, true},
		{"debug with force flag migrates", "debug", true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tc.force}
			cfg.Server.Mode = tc.mode

			if got := shouldMigrate(cfg); got != tc.want {
				t.Errorf("shouldMigrate(mode=%q, force=%v) = %v, want %v", tc.mode, tc.force, got, tc.want)
			}
		})
	}
}
