package utils

import (
	"os"
	"path/filepath"
)

// ReportDir is the default directory correlation reports are written to
func ReportDir() string {
	return filepath.Join(CacheDir(), "reports")
}

func CacheDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "vuln-correlator")
}
