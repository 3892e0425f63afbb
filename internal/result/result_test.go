package result

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCap(t *testing.T) {
	rs := &ResultSet{Columns: []string{"n"}}
	for i := 0; i < 1500; i++ {
		rs.Rows = append(rs.Rows, []any{int64(i)})
	}

	rs.Cap(DefaultLimit)

	assert.Equal(t, 1000, rs.Len())
	assert.True(t, rs.Truncated)
	assert.Equal(t, int64(999), rs.Rows[999][0])
}

func TestCap_UnderLimit(t *testing.T) {
	rs := &ResultSet{Columns: []string{"n"}, Rows: [][]any{{1}, {2}}}
	rs.Cap(2)
	assert.False(t, rs.Truncated)
	assert.Equal(t, 2, rs.Len())

	rs.Cap(0)
	assert.Equal(t, 2, rs.Len())
}

func TestClone_Independent(t *testing.T) {
	rs := &ResultSet{Columns: []string{"a"}, Rows: [][]any{{"x"}}}
	c := rs.Clone()
	c.Rows[0][0] = "y"
	c.Columns[0] = "b"

	assert.Equal(t, "x", rs.Rows[0][0])
	assert.Equal(t, "a", rs.Columns[0])
}

func TestIndex(t *testing.T) {
	rs := &ResultSet{Columns: []string{"id", "name", "id"}}
	assert.Equal(t, 0, rs.Index("id"))
	assert.Equal(t, 1, rs.Index("name"))
	assert.Equal(t, -1, rs.Index("missing"))
}

func TestWriteCSV(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"id", "summary"},
		Rows: [][]any{
			{int64(1), "crash, on start"},
			{int64(2), nil},
		},
	}

	tests := []struct {
		name string
		opts CSVOptions
		want string
	}{
		{
			name: "legacy keeps trailing comma and does not escape",
			opts: CSVOptions{},
			want: "id,summary,\n1,crash, on start,\n2,,\n",
		},
		{
			name: "strict quotes and drops trailing comma",
			opts: CSVOptions{Strict: true},
			want: "id,summary\n1,\"crash, on start\"\n2,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, rs, tt.opts))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestValues(t *testing.T) {
	assert.Equal(t, "abc", Normalize([]byte("abc")))
	assert.Equal(t, int64(3), Normalize(int64(3)))
	assert.Equal(t, 1.5, Normalize(1.5))
	assert.Equal(t, float32(2), Normalize(float32(2)))
	assert.Equal(t, "NaN", Normalize(math.NaN()))
	assert.Equal(t, "Infinity", Normalize(math.Inf(1)))
	assert.Equal(t, "-Infinity", Normalize(float32(math.Inf(-1))))

	n, ok := AsInt64("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = AsInt64("x")
	assert.False(t, ok)

	f, ok := AsFloat64("1.5")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	assert.True(t, AsBool("YES"))
	assert.True(t, AsBool(int64(1)))
	assert.False(t, AsBool("NO"))
	assert.False(t, AsBool(nil))

	assert.Nil(t, AsOptionalString(nil))
	require.NotNil(t, AsOptionalString("0"))
	assert.Equal(t, "0", *AsOptionalString("0"))
}
