// Package secrets persists the flat credentials file written by `omni setup`
// and read by every other command.
package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Credentials is the full set of secrets omni needs to talk to the vault and
// the ERP. The record is written as a whole by setup and read as a whole by
// every other command; it is never partially updated.
type Credentials struct {
	VaultClientID       string
	VaultClientSecret   string
	VaultMasterPassword string
	ErpBaseURL          string
	ErpAPIKey           string
	ErpUsername         string
	ErpPassword         string
}

// Key names in the credentials file. They match the .env names the tool has
// always used, so files written by earlier versions keep working.
const (
	keyVaultClientID       = "BW_CLIENTID"
	keyVaultClientSecret   = "BW_CLIENTSECRET"
	keyVaultMasterPassword = "BW_MASTER_PASSWORD"
	keyErpBaseURL          = "EPICOR_BASE_URL"
	keyErpAPIKey           = "EPICOR_API_KEY"
	keyErpUsername         = "EPICOR_USERNAME"
	keyErpPassword         = "EPICOR_PASSWORD"
)

// filePerm keeps the credentials file readable by the owner only.
const filePerm = 0o600

// ErrMissing means no credentials file exists yet.
var ErrMissing = errors.New("credentials file not found; run `omni setup` first")

// IncompleteError reports which required keys are absent or empty. A partial
// file never yields a Credentials value.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("credentials file is incomplete, missing: %s", strings.Join(e.Missing, ", "))
}

// entries returns the key/field pairs in their canonical file order.
func entries(c *Credentials) []struct {
	key string
	val *string
} {
	return []struct {
		key string
		val *string
	}{
		{keyVaultClientID, &c.VaultClientID},
		{keyVaultClientSecret, &c.VaultClientSecret},
		{keyVaultMasterPassword, &c.VaultMasterPassword},
		{keyErpBaseURL, &c.ErpBaseURL},
		{keyErpAPIKey, &c.ErpAPIKey},
		{keyErpUsername, &c.ErpUsername},
		{keyErpPassword, &c.ErpPassword},
	}
}

// Save writes the credentials to path as NAME=value lines. The write is
// atomic (temp file then rename) so an interrupted run never leaves a
// half-written secrets file, and the result is chmod'd to 0600.
func Save(path string, c Credentials) error {
	var buf bytes.Buffer
	for _, e := range entries(&c) {
		if strings.ContainsAny(*e.val, "\r\n") {
			return fmt.Errorf("%s must not contain a newline", e.key)
		}
		fmt.Fprintf(&buf, "%s=%s\n", e.key, *e.val)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating credentials directory: %w", err)
		}
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	if err := os.Chmod(path, filePerm); err != nil {
		return fmt.Errorf("restricting credentials file permissions: %w", err)
	}
	return nil
}

// Load reads the credentials from path. It returns ErrMissing when the file
// does not exist and an IncompleteError when any of the seven keys is absent
// or empty.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrMissing
		}
		return Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}

	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		// Only the line terminator comes off; values keep their whitespace
		// so a password with padding round-trips byte for byte.
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = val
	}

	var c Credentials
	var missing []string
	for _, e := range entries(&c) {
		v := values[e.key]
		if v == "" {
			missing = append(missing, e.key)
			continue
		}
		*e.val = v
	}
	if len(missing) > 0 {
		return Credentials{}, &IncompleteError{Missing: missing}
	}
	return c, nil
}
