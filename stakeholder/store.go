package stakeholder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"syscall"
)

const maxJSONLineBytes = 1024 * 1024

// withFileLock runs fn while holding an exclusive lock on a sibling
// "<path>.lock" file, so the data file itself can be replaced by rename.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// readStakeholders loads one stakeholder per line. A missing file is an
// empty directory. Blank lines are skipped and every record must validate.
func readStakeholders(path string) ([]*Stakeholder, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return decodeStakeholders(f)
}

func decodeStakeholders(reader io.Reader) ([]*Stakeholder, error) {
	var people []*Stakeholder
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		s := new(Stakeholder)
		if err := json.Unmarshal(line, s); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		people = append(people, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return people, nil
}

// writeStakeholders replaces the file at path with the stakeholders sorted
// by name, so saved directories diff cleanly. The file is written to a
// temporary sibling and renamed into place.
func writeStakeholders(path string, people []*Stakeholder) error {
	sorted := slices.Clone(people)
	sortByName(sorted)

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	encoder := json.NewEncoder(f)
	for _, s := range sorted {
		err := s.Validate()
		if err == nil {
			err = encoder.Encode(s)
		}
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write %s: %w", s.Name, err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
