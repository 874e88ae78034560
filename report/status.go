package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"
)

const (
	lastUpdatedFile = "last_updated.json"
)

type LastUpdated map[string]time.Time

// GetLastUpdatedDate returns when key was last written under dir, or the
// unix epoch when it never was.
func GetLastUpdatedDate(dir, key string) (time.Time, error) {
	lastUpdated, err := getLastUpdatedDate(dir)
	if err != nil {
		return time.Time{}, err
	}

	t, ok := lastUpdated[key]
	if !ok {
		return time.Unix(0, 0), nil
	}

	return t, nil
}

func getLastUpdatedDate(dir string) (LastUpdated, error) {
	lastUpdated := LastUpdated{}
	path := filepath.Join(dir, lastUpdatedFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return lastUpdated, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err = json.NewDecoder(f).Decode(&lastUpdated); err != nil {
		return nil, xerrors.Errorf("failed to decode %s: %w", path, err)
	}

	return lastUpdated, nil
}

func SetLastUpdatedDate(dir, key string, lastUpdatedDate time.Time) error {
	lastUpdated, err := getLastUpdatedDate(dir)
	if err != nil {
		return xerrors.Errorf("failed to get last updated date: %w", err)
	}
	lastUpdated[key] = lastUpdatedDate

	b, err := json.MarshalIndent(lastUpdated, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(dir, lastUpdatedFile), b, 0600); err != nil {
		return xerrors.Errorf("failed to write last updated date: %w", err)
	}

	return nil
}
