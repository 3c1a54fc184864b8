package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig_Defaults verifies that an empty config resolves to a plain
// build of the default manifest in the current directory.
func TestNewConfig_Defaults(t *testing.T) {
	// Arrange & Act
	cfg, err := NewConfig(Config{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, CommandBuild, cfg.Command)
	assert.Equal(t, "build.hcl", cfg.ManifestPath)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.Empty(t, cfg.Targets)
}

// TestNewConfig_BuildAcceptsAllFlags verifies that the build command imposes
// no flag restrictions.
func TestNewConfig_BuildAcceptsAllFlags(t *testing.T) {
	// Arrange & Act
	cfg, err := NewConfig(Config{
		Command: CommandBuild,
		Targets: []string{"efficient", "inefficient.o"},
		DryRun:  true,
		Watch:   true,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"efficient", "inefficient.o"}, cfg.Targets)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Watch)
}

// TestNewConfig_Errors verifies the flag combinations each command rejects.
func TestNewConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{
			name:    "clean with targets",
			cfg:     Config{Command: CommandClean, Targets: []string{"efficient"}},
			wantMsg: "does not accept targets",
		},
		{
			name:    "clean in watch mode",
			cfg:     Config{Command: CommandClean, Watch: true},
			wantMsg: "cannot run in watch mode",
		},
		{
			name:    "init with targets",
			cfg:     Config{Command: CommandInit, Targets: []string{"efficient"}},
			wantMsg: "does not accept targets",
		},
		{
			name:    "init in watch mode",
			cfg:     Config{Command: CommandInit, Watch: true},
			wantMsg: "cannot run in watch mode",
		},
		{
			name:    "init with dry-run",
			cfg:     Config{Command: CommandInit, DryRun: true},
			wantMsg: "does not support dry-run",
		},
		{
			name:    "unknown command",
			cfg:     Config{Command: "install"},
			wantMsg: `unknown command "install"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			cfg, err := NewConfig(tc.cfg)

			// Assert
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
