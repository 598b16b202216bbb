package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeJSONConfig сохраняет конфигурацию во временный файл.
func writeJSONConfig(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	f, err := os.CreateTemp(t.TempDir(), "vault-config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestConfigBuilder_EmptyBuildYieldsZeroConfig(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestConfigBuilder_BuildPropagatesError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestConfigBuilder_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			App:      App{Passphrase: "from-env"},
			Deletion: Deletion{DefaultMethod: "dod-3pass"},
		},
		&StructuredConfig{
			App:     App{Passphrase: "from-file", TokenIssuer: "content-vault"},
			Storage: Storage{Blobs: Blobs{Dir: "/var/lib/vault/blobs"}},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)

	// заполненное раньше поле не перекрывается более поздним источником
	assert.Equal(t, "from-env", cfg.App.Passphrase)
	assert.Equal(t, "dod-3pass", cfg.Deletion.DefaultMethod)
	// пустые поля добираются из следующих источников
	assert.Equal(t, "content-vault", cfg.App.TokenIssuer)
	assert.Equal(t, "/var/lib/vault/blobs", cfg.Storage.Blobs.Dir)
}

func TestConfigBuilder_BuildRunsValidation(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Quarantine: Quarantine{QuarantineThreshold: 1.5},
	})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidQuarantineConfigs)
}

func TestWithEnv(t *testing.T) {
	t.Run("reads prefixed variables", func(t *testing.T) {
		t.Setenv("APP_TOKEN_ISSUER", "env-issuer")
		t.Setenv("DELETION_DEFAULT_METHOD", "gutmann-35pass")
		t.Setenv("WORKERS_RESCAN_INTERVAL", "15m")

		b := newConfigBuilder()
		assert.Same(t, b, b.withEnv())

		require.Len(t, b.configs, 1)
		assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
		assert.Equal(t, "gutmann-35pass", b.configs[0].Deletion.DefaultMethod)
		assert.Equal(t, 15*time.Minute, b.configs[0].Workers.RescanInterval)
	})

	t.Run("empty environment is not an error", func(t *testing.T) {
		b := newConfigBuilder().withEnv()
		assert.NoError(t, b.err)
		assert.Len(t, b.configs, 1)
	})
}

func TestWithJSON(t *testing.T) {
	t.Run("no-op without a path", func(t *testing.T) {
		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{})

		assert.Same(t, b, b.withJSON())
		assert.Len(t, b.configs, 1)
		assert.NoError(t, b.err)
	})

	t.Run("valid file is parsed and appended", func(t *testing.T) {
		payload := StructuredJSONConfig{}
		payload.App.Version = "1.4.0"
		payload.Classifier.URL = "http://classifier:9090"
		path := writeJSONConfig(t, payload)

		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
		b.withJSON()

		require.NoError(t, b.err)
		require.Len(t, b.configs, 2)
		assert.Equal(t, "1.4.0", b.configs[1].App.Version)
		assert.Equal(t, "http://classifier:9090", b.configs[1].Classifier.URL)
	})

	t.Run("missing file sets the builder error", func(t *testing.T) {
		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/no/such/config.json"})
		b.withJSON()

		assert.Error(t, b.err)
	})

	t.Run("malformed file sets the builder error", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "bad-*.json")
		require.NoError(t, err)
		_, err = f.WriteString(`{"app":`)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: f.Name()})
		b.withJSON()

		assert.Error(t, b.err)
	})

	t.Run("last non-empty path wins", func(t *testing.T) {
		payload := StructuredJSONConfig{}
		payload.App.Version = "from-second-path"
		path := writeJSONConfig(t, payload)

		b := newConfigBuilder()
		b.configs = append(b.configs,
			&StructuredConfig{JSONFilePath: ""},
			&StructuredConfig{JSONFilePath: path},
		)
		b.withJSON()

		require.NoError(t, b.err)
		require.Len(t, b.configs, 3)
		assert.Equal(t, "from-second-path", b.configs[2].App.Version)
	})
}
