package cli

import (
	"bytes"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "PGHOST", "APP_ENV", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_DATABASE", filepath.Join(t.TempDir(), "site.sqlite"))
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
}

func TestSecretGenerate(t *testing.T) {
	out, err := run(t, "secret", "generate")
	require.NoError(t, err)

	secret := strings.TrimSpace(out)
	assert.Len(t, secret, 128)
	_, err = hex.DecodeString(secret)
	assert.NoError(t, err)

	_, err = run(t, "secret", "generate", "--bytes", "8")
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied (sqlite)")
}

func TestAdminSeed(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "admin", "seed")
	require.Error(t, err)

	out, err := run(t, "admin", "seed", "--email", "admin@example.com", "--password", "changeme123")
	require.NoError(t, err)
	assert.Contains(t, out, "admin admin@example.com created")

	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme123")
	out, err = run(t, "admin", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}
