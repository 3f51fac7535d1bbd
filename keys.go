package pydock

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keys.yaml
var defaultKeysYAML []byte

// MissingKeyError reports a selected release line with no registered signing key.
type MissingKeyError struct {
	Major int
	Minor int
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no signing key registered for %d.%d", e.Major, e.Minor)
}

// KeyRegistry maps a release line to its GPG key fingerprint.
type KeyRegistry map[Series]string

// Lookup returns the key for (major, minor) or a *MissingKeyError.
func (r KeyRegistry) Lookup(major, minor int) (string, error) {
	key, ok := r[Series{Major: major, Minor: minor}]
	if !ok {
		return "", &MissingKeyError{Major: major, Minor: minor}
	}

	return key, nil
}

// Merge returns a copy of r with entries from over laid on top.
func (r KeyRegistry) Merge(over KeyRegistry) KeyRegistry {
	out := make(KeyRegistry, len(r)+len(over))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}

	return out
}

// DefaultKeys returns the compiled-in registry.
// It panics if the embedded table is malformed.
func DefaultKeys() KeyRegistry {
	reg, err := ParseKeys(defaultKeysYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded keys.yaml: %v", err))
	}

	return reg
}

// LoadKeys reads a YAML registry file ("major: {minor: fingerprint}").
func LoadKeys(path string) (KeyRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keys file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read keys file %q: %w", path, err)
	}

	reg, err := ParseKeys(data)
	if err != nil {
		return nil, fmt.Errorf("invalid keys file %s: %w", path, err)
	}

	return reg, nil
}

// ParseKeys decodes a YAML registry document.
func ParseKeys(data []byte) (KeyRegistry, error) {
	var raw map[int]map[int]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	reg := make(KeyRegistry)
	for major, minors := range raw {
		for minor, key := range minors {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("empty key for %d.%d", major, minor)
			}
			reg[Series{Major: major, Minor: minor}] = key
		}
	}

	return reg, nil
}
