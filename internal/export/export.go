// Package export publishes query results as CSV objects and hands back a
// presigned download link.
package export

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/filestore"
	"github.com/koustreak/sqlconsole/internal/result"
)

// ContentType is stored with every published object.
const ContentType = "text/csv; charset=utf-8"

// Export is a published result.
type Export struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Publisher uploads CSV renditions of result sets to one bucket.
// It is safe for concurrent use.
type Publisher struct {
	store  filestore.Store
	bucket string
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewPublisher publishes into cfg.Bucket under cfg.Prefix. A zero TTL
// defaults to 15 minutes.
func NewPublisher(store filestore.Store, cfg *filestore.Config) *Publisher {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Publisher{
		store:  store,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Publish writes rs as CSV to a fresh object and presigns a GET URL for it.
func (p *Publisher) Publish(ctx context.Context, rs *result.ResultSet, opts result.CSVOptions) (*Export, error) {
	var buf bytes.Buffer
	if err := result.WriteCSV(&buf, rs, opts); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to render csv", err)
	}

	now := p.now().UTC()
	name := "query-" + now.Format("20060102-150405") + "-" + uuid.NewString()[:8] + ".csv"
	key := path.Join(p.prefix, now.Format("2006/01/02"), name)

	info, err := p.store.PutObject(ctx, p.bucket, key, bytes.NewReader(buf.Bytes()), filestore.PutOptions{
		ContentType:        ContentType,
		ContentDisposition: `attachment; filename="` + name + `"`,
		Size:               int64(buf.Len()),
	})
	if err != nil {
		return nil, err
	}

	url, err := p.store.PresignGetURL(ctx, p.bucket, key, p.ttl)
	if err != nil {
		return nil, err
	}

	return &Export{
		Bucket:    p.bucket,
		Key:       key,
		Size:      info.Size,
		URL:       url,
		ExpiresAt: now.Add(p.ttl),
	}, nil
}
