package export

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/filestore"
	"github.com/koustreak/sqlconsole/internal/result"
)

type memStore struct {
	objects map[string][]byte
	opts    map[string]filestore.PutOptions
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, opts: map[string]filestore.PutOptions{}}
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

func (m *memStore) PutObject(_ context.Context, bucket, key string, body io.Reader, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.objects[bucket+"/"+key] = b
	m.opts[bucket+"/"+key] = opts
	return &filestore.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opts.ContentType}, nil
}

func (m *memStore) PresignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "https://files.example/" + bucket + "/" + key + "?ttl=" + ttl.String(), nil
}

func sample() *result.ResultSet {
	return &result.ResultSet{
		Columns: []string{"id", "summary"},
		Rows:    [][]any{{int64(1), "a, b"}, {int64(2), nil}},
	}
}

func TestPublish_Legacy(t *testing.T) {
	store := newMemStore()
	cfg := filestore.DefaultConfig("localhost:9000", "k", "s", "exports")
	p := NewPublisher(store, cfg)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	exp, err := p.Publish(context.Background(), sample(), result.CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, "exports", exp.Bucket)
	assert.True(t, strings.HasPrefix(exp.Key, "sql-exports/2026/03/01/query-20260301-123000-"), exp.Key)
	assert.True(t, strings.HasSuffix(exp.Key, ".csv"))
	assert.Equal(t, time.Date(2026, 3, 1, 12, 45, 0, 0, time.UTC), exp.ExpiresAt)
	assert.Contains(t, exp.URL, "ttl=15m0s")

	body := string(store.objects["exports/"+exp.Key])
	assert.Equal(t, "id,summary,\n1,a, b,\n2,,\n", body)
	assert.Equal(t, int64(len(body)), exp.Size)
	assert.Equal(t, ContentType, store.opts["exports/"+exp.Key].ContentType)
}

func TestPublish_Strict(t *testing.T) {
	store := newMemStore()
	p := NewPublisher(store, &filestore.Config{Bucket: "exports"})

	exp, err := p.Publish(context.Background(), sample(), result.CSVOptions{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, "id,summary\n1,\"a, b\"\n2,\n", string(store.objects["exports/"+exp.Key]))
}

func TestPublish_StoreErrorPropagates(t *testing.T) {
	store := newMemStore()
	store.putErr = errs.New(errs.ErrKindPermissionDenied, "access denied")
	p := NewPublisher(store, &filestore.Config{Bucket: "exports"})

	_, err := p.Publish(context.Background(), sample(), result.CSVOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsPermissionDenied(err))
}
