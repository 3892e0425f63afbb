package filestore

import "time"

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	// Key is the full object path within the bucket.
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	ContentType  string
	ETag         string
	LastModified time.Time
}

// PutOptions describes the object being written.
type PutOptions struct {
	// ContentType is the MIME type stored with the object.
	ContentType string

	// ContentDisposition makes browsers download rather than display.
	ContentDisposition string

	// Size is the byte length of the body, or -1 when unknown.
	Size int64
}
