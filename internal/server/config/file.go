package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/tippace/internal/flagx"
	"github.com/dmitrijs2005/tippace/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// either strings such as "600ms" or integer nanoseconds.
type FileConfig struct {
	HTTPAddr           string         `json:"http_addr" yaml:"http_addr"`
	GRPCHealthAddr     string         `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	DatabaseDSN        string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey          string         `json:"secret_key" yaml:"secret_key"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	PersistDebounce    timex.Duration `json:"persist_debounce" yaml:"persist_debounce"`
	PersistTimeout     timex.Duration `json:"persist_timeout" yaml:"persist_timeout"`
	DefaultWeekStart   string         `json:"default_week_start" yaml:"default_week_start"`
	TimeZone           string         `json:"time_zone" yaml:"time_zone"`
	S3RootUser         string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region           string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	ExportLinkValidity timex.Duration `json:"export_link_validity" yaml:"export_link_validity"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON. Keys missing
// from the file leave the current value alone. An unreadable or malformed
// file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	fc := &FileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	}

	return fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.DefaultWeekStart, fc.DefaultWeekStart)
	setString(&c.TimeZone, fc.TimeZone)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)

	if fc.PersistDebounce.Duration > 0 {
		c.PersistDebounce = fc.PersistDebounce.Duration
	}
	if fc.PersistTimeout.Duration > 0 {
		c.PersistTimeout = fc.PersistTimeout.Duration
	}
	if fc.ExportLinkValidity.Duration > 0 {
		c.ExportLinkValidity = fc.ExportLinkValidity.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
