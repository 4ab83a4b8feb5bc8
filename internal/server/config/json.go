package config

import (
	"encoding/json"
	"os"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/flagx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/timex"
)

// JsonConfig is the DTO for reading JSON configuration files. It uses
// timex.Duration for interval fields, which parses both string values such
// as "15m" and integer nanoseconds. Values are copied into the runtime
// Config after unmarshalling; absent fields leave the defaults intact.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	StorageBackend               *string         `json:"storage_backend"`
	UploadDir                    *string         `json:"upload_dir"`
	MaxUploadBytes               *int64          `json:"max_upload_bytes"`
	S3AccessKey                  *string         `json:"s3_access_key"`
	S3SecretKey                  *string         `json:"s3_secret_key"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. No flag means no JSON file is
// loaded. An unreadable or invalid file panics: a requested config that
// cannot be applied should stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIfPresent := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setIfPresent(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfPresent(&config.DatabaseDSN, c.DatabaseDSN)
	setIfPresent(&config.SecretKey, c.SecretKey)
	setIfPresent(&config.StorageBackend, c.StorageBackend)
	setIfPresent(&config.UploadDir, c.UploadDir)
	setIfPresent(&config.S3AccessKey, c.S3AccessKey)
	setIfPresent(&config.S3SecretKey, c.S3SecretKey)
	setIfPresent(&config.S3Bucket, c.S3Bucket)
	setIfPresent(&config.S3Region, c.S3Region)
	setIfPresent(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
}
