package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name       string
		flagValue  string
		configured string
		want       string
	}{
		{"disabled", "", "", ""},
		{"configured only", "", "data/sync.db", "data/sync.db"},
		{"flag wins", "flag.db", "data/sync.db", "flag.db"},
		{"home expanded", "~/.shopify-wave-sync/sync.db", "", filepath.Join(home, ".shopify-wave-sync", "sync.db")},
		{"tilde inside name kept", "backup~/sync.db", "", "backup~/sync.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HistoryPath(tt.flagValue, tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandHomeBareTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}
