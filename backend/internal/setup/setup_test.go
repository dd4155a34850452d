package setup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/shared/config"
)

func TestNotifyConfig(t *testing.T) {
	assert.Empty(t, NotifyConfig(nil).Host)

	got := NotifyConfig(&config.SMTP{
		Host:          "smtp.example.com",
		Port:          465,
		Username:      "site@example.com",
		Password:      "secret",
		Security:      "ssl",
		SubjectPrefix: "[Portfolio]",
		Timeout:       7,
	})
	assert.Equal(t, "smtp.example.com", got.Host)
	assert.Equal(t, 465, got.Port)
	assert.True(t, got.ImplicitTLS())
	assert.Equal(t, "[Portfolio]", got.SubjectPrefix)
	assert.Equal(t, 7*time.Second, got.Timeout)
}

func TestSetupDependencies(t *testing.T) {
	t.Run("notifications disabled", func(t *testing.T) {
		cfg := &config.Config{Public: config.Public{DataPath: filepath.Join(t.TempDir(), "data", "contacts.csv")}}

		deps, err := SetupDependencies(cfg)
		require.NoError(t, err)
		assert.Nil(t, deps.Notifier)
		assert.NotNil(t, deps.Handler)

		info, err := os.Stat(filepath.Dir(cfg.Public.DataPath))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("notifications enabled", func(t *testing.T) {
		cfg := &config.Config{
			Public:  config.Public{DataPath: filepath.Join(t.TempDir(), "contacts.csv")},
			Private: config.Private{SMTP: &config.SMTP{Host: "smtp.example.com"}},
		}

		deps, err := SetupDependencies(cfg)
		require.NoError(t, err)
		require.NotNil(t, deps.Notifier)
		assert.True(t, deps.Notifier.Enabled())
	})

	t.Run("unusable data path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		cfg := &config.Config{Public: config.Public{DataPath: filepath.Join(blocker, "contacts.csv")}}

		_, err := SetupDependencies(cfg)
		assert.Error(t, err)
	})
}
