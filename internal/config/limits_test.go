package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLimitsHolderDefaults(t *testing.T) {
	holder, err := NewLimitsConfigHolder()
	require.NoError(t, err)

	limits := holder.Current()
	require.Equal(t, 5, limits.Recommendation)
	require.Equal(t, 10, limits.MrDpChat)
	require.Equal(t, 3, limits.QuickDope)
}

func TestUnmarshalLimitsOverrides(t *testing.T) {
	dir := t.TempDir()
	content := []byte("limits:\n  recommendation: 8\n  quickDope: 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "limits.yml"), content, 0o644))

	v := viper.New()
	v.SetConfigName("limits")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)
	require.NoError(t, v.ReadInConfig())

	limits, err := unmarshalLimits(v)
	require.NoError(t, err)
	require.Equal(t, 8, limits.Recommendation)
	require.Equal(t, 1, limits.QuickDope)
	// Unset keys keep their defaults.
	require.Equal(t, 10, limits.MrDpChat)
}

func TestUnmarshalLimitsRejectsNonPositive(t *testing.T) {
	dir := t.TempDir()
	content := []byte("limits:\n  recommendation: -2\n  mrDpChat: 0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "limits.yml"), content, 0o644))

	v := viper.New()
	v.SetConfigName("limits")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)
	require.NoError(t, v.ReadInConfig())

	limits, err := unmarshalLimits(v)
	require.NoError(t, err)
	require.Equal(t, DefaultLimitsConfig(), limits)
}
