package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-g", ":6000", "-d", "db", "-s", "secret", "-l", "debug",
				"-w", "250", "-k", "monday", "-z", "Europe/Riga",
				"-u", "user", "-p", "password", "-b", "bucket", "-r", "us-west-1", "-e", "http://endpoint", "-x", "30",
			},
			expected: &Config{
				HTTPAddr:           "127.0.0.1:9090",
				GRPCHealthAddr:     ":6000",
				DatabaseDSN:        "db",
				SecretKey:          "secret",
				LogLevel:           "debug",
				PersistDebounce:    250 * time.Millisecond,
				DefaultWeekStart:   "monday",
				TimeZone:           "Europe/Riga",
				S3RootUser:         "user",
				S3RootPassword:     "password",
				S3Bucket:           "bucket",
				S3Region:           "us-west-1",
				S3BaseEndpoint:     "http://endpoint",
				ExportLinkValidity: 30 * time.Minute,
			},
		},
		{
			name:        "non numeric debounce",
			args:        []string{"cmd", "-w", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsUnsetValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-k", "monday", "-c", "ignored.yaml"}

	var config Config
	config.LoadDefaults()
	parseFlags(&config)

	want := Config{}
	want.LoadDefaults()
	want.DefaultWeekStart = "monday"
	assert.Empty(t, cmp.Diff(want, config))
}
