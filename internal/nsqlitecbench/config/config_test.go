package config

import (
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Config{}
		parser, err := arg.NewParser(arg.Config{}, &cfg)
		require.NoError(t, err)
		require.NoError(t, parser.Parse([]string{}))

		assert.Equal(t, "", cfg.DataDirectory)
		assert.Equal(t, 100000, cfg.Users)
		assert.Equal(t, 10000, cfg.LargeBytes)
		assert.Equal(t, 100, cfg.Queries)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Flags", func(t *testing.T) {
		cfg := Config{}
		parser, err := arg.NewParser(arg.Config{}, &cfg)
		require.NoError(t, err)
		require.NoError(t, parser.Parse([]string{"--users", "50", "--queries", "2", "--data-directory", "/tmp/x"}))

		assert.Equal(t, 50, cfg.Users)
		assert.Equal(t, 2, cfg.Queries)
		assert.Equal(t, "/tmp/x", cfg.DataDirectory)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "valid", config: Config{Users: 1, LargeBytes: 1, Queries: 1}},
		{name: "no users", config: Config{Users: 0, LargeBytes: 1, Queries: 1}, wantErr: "invalid users"},
		{name: "negative bytes", config: Config{Users: 1, LargeBytes: -1, Queries: 1}, wantErr: "invalid large-bytes"},
		{name: "no queries", config: Config{Users: 1, LargeBytes: 1}, wantErr: "invalid queries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
