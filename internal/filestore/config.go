package filestore

import "time"

// Provider identifies the object storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds the settings for the bucket that receives CSV exports.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	AccessKey string
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string

	// Bucket receives every export. It must already exist.
	Bucket string

	// Prefix is prepended to every object key (e.g. "sql-exports/").
	Prefix string

	// TTL bounds the lifetime of presigned download URLs.
	TTL time.Duration
}

// DefaultConfig returns a local-dev MinIO config with 15 minute links.
func DefaultConfig(endpoint, accessKey, secretKey, bucket string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		Prefix:    "sql-exports/",
		TTL:       15 * time.Minute,
	}
}
