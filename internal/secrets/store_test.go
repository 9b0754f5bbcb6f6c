package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCredentials() Credentials {
	return Credentials{
		VaultClientID:       "user.abc123",
		VaultClientSecret:   "shh-secret",
		VaultMasterPassword: "correct horse battery staple",
		ErpBaseURL:          "https://erp.example.com",
		ErpAPIKey:           "api-key-1",
		ErpUsername:         "jdoe",
		ErpPassword:         "p@ssw0rd",
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")
	want := validCredentials()

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLoad_PreservesValueWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")

	want := validCredentials()
	want.VaultMasterPassword = "  pw with padding  "
	want.ErpPassword = "\ttabbed\t"

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_WhitespaceOnlyValueIsNotIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")

	c := validCredentials()
	c.ErpPassword = "   "
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "   ", got.ErpPassword)
}

func TestSave_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.env")

	require.NoError(t, Save(path, validCredentials()))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSave_RestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")

	require.NoError(t, Save(path, validCredentials()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_RejectsNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")

	c := validCredentials()
	c.ErpPassword = "line1\nline2"

	err := Save(path, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newline")

	// A rejected save must not leave a file behind.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_LeavesNoTempResidue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.env")

	require.NoError(t, Save(path, validCredentials()))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "credentials.env", files[0].Name())
}

func TestSave_OverwritesWholeRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")

	first := validCredentials()
	require.NoError(t, Save(path, first))

	second := validCredentials()
	second.ErpUsername = "msmith"
	second.VaultClientSecret = "rotated"
	require.NoError(t, Save(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.env")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoad_IncompletePerField(t *testing.T) {
	keys := []string{
		"BW_CLIENTID", "BW_CLIENTSECRET", "BW_MASTER_PASSWORD",
		"EPICOR_BASE_URL", "EPICOR_API_KEY", "EPICOR_USERNAME", "EPICOR_PASSWORD",
	}

	full := map[string]string{
		"BW_CLIENTID":        "id",
		"BW_CLIENTSECRET":    "secret",
		"BW_MASTER_PASSWORD": "master",
		"EPICOR_BASE_URL":    "https://erp.example.com",
		"EPICOR_API_KEY":     "key",
		"EPICOR_USERNAME":    "jdoe",
		"EPICOR_PASSWORD":    "pw",
	}

	for _, omitted := range keys {
		t.Run(omitted, func(t *testing.T) {
			var b strings.Builder
			for k, v := range full {
				if k == omitted {
					continue
				}
				b.WriteString(k + "=" + v + "\n")
			}

			path := filepath.Join(t.TempDir(), "credentials.env")
			require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

			_, err := Load(path)
			var incomplete *IncompleteError
			require.True(t, errors.As(err, &incomplete), "want IncompleteError, got %v", err)
			assert.Equal(t, []string{omitted}, incomplete.Missing)
		})
	}
}

func TestLoad_EmptyValueIsIncomplete(t *testing.T) {
	content := "BW_CLIENTID=id\n" +
		"BW_CLIENTSECRET=\n" +
		"BW_MASTER_PASSWORD=master\n" +
		"EPICOR_BASE_URL=https://erp.example.com\n" +
		"EPICOR_API_KEY=key\n" +
		"EPICOR_USERNAME=jdoe\n" +
		"EPICOR_PASSWORD=pw\n"

	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"BW_CLIENTSECRET"}, incomplete.Missing)
}

func TestLoad_IgnoresCommentsAndBlankLines(t *testing.T) {
	content := "# omni credentials\n\n" +
		"BW_CLIENTID=id\n" +
		"BW_CLIENTSECRET=secret\n" +
		"BW_MASTER_PASSWORD=master\n" +
		"EPICOR_BASE_URL=https://erp.example.com\n" +
		"EPICOR_API_KEY=key\n" +
		"EPICOR_USERNAME=jdoe\n" +
		"EPICOR_PASSWORD=pw\n"

	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "id", got.VaultClientID)
	assert.Equal(t, "pw", got.ErpPassword)
}

func TestLoad_ValueMayContainEquals(t *testing.T) {
	c := validCredentials()
	c.VaultClientSecret = "abc==def=="

	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc==def==", got.VaultClientSecret)
}
