package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/shopfront/internal/flagx"
	"github.com/dmitrijs2005/shopfront/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Fields left out of the file keep their current value.
type FileConfig struct {
	EndpointAddrHTTP         *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC         *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN              *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                *string         `json:"secret_key" yaml:"secret_key"`
	TokenIssuer              *string         `json:"token_issuer" yaml:"token_issuer"`
	TokenAudience            *string         `json:"token_audience" yaml:"token_audience"`
	TokenValidityDuration    *timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	StaticDir                *string         `json:"static_dir" yaml:"static_dir"`
	S3RootUser               *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword           *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                 *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                 *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint           *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	ImageURLValidityDuration *timex.Duration `json:"image_url_validity_duration" yaml:"image_url_validity_duration"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON. Unreadable or
// invalid files panic, since the server cannot start in that state.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.TokenIssuer, fc.TokenIssuer)
	setString(&config.TokenAudience, fc.TokenAudience)
	setString(&config.StaticDir, fc.StaticDir)
	setString(&config.S3RootUser, fc.S3RootUser)
	setString(&config.S3RootPassword, fc.S3RootPassword)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.S3Region, fc.S3Region)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)

	if fc.TokenValidityDuration != nil {
		config.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.ImageURLValidityDuration != nil {
		config.ImageURLValidityDuration = fc.ImageURLValidityDuration.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
