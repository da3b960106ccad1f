package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ehow/config"
	"ehow/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generated = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func sampleSet() types.ResultSet {
	end := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	return types.ResultSet{
		Live: []types.ContentRecord{{ID: "live-1", Title: "On air"}},
		Past: []types.ContentRecord{{ID: "past-1", LiveDetails: &types.LiveDetails{ActualEnd: &end}}},
	}
}

func readDoc(t *testing.T, data []byte) types.CacheDocument {
	t.Helper()
	var doc types.CacheDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestFileSinkWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(filepath.Join(dir, "out"), nil)
	require.NoError(t, err)

	require.NoError(t, WriteAll(context.Background(), sink, sampleSet(), generated))

	raw, err := os.ReadFile(filepath.Join(dir, "out", config.UpcomingCacheFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items": [], "generatedAt": "2024-06-10T00:00:00Z"}`, string(raw))

	live := readDoc(t, mustRead(t, filepath.Join(dir, "out", config.LiveCacheFile)))
	require.Len(t, live.Items, 1)
	assert.Equal(t, "live-1", live.Items[0].ID)
	assert.True(t, live.GeneratedAt.Equal(generated))

	past := readDoc(t, mustRead(t, filepath.Join(dir, "out", config.PastCacheFile)))
	require.Len(t, past.Items, 1)
	require.NotNil(t, past.Items[0].LiveDetails)
	assert.Nil(t, past.Items[0].LiveDetails.ActualStart)
}

func TestFileSinkOverwritesWholesale(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, WriteAll(ctx, sink, sampleSet(), generated))
	require.NoError(t, WriteAll(ctx, sink, types.ResultSet{}, generated.Add(time.Hour)))

	live := readDoc(t, mustRead(t, filepath.Join(dir, config.LiveCacheFile)))
	assert.Empty(t, live.Items)
	assert.True(t, live.GeneratedAt.Equal(generated.Add(time.Hour)))
}

func TestFileSinkRejectsUnknownArtifact(t *testing.T) {
	sink, err := NewFileSink(t.TempDir(), nil)
	require.NoError(t, err)

	err = sink.Write(context.Background(), "discarded", types.NewCacheDocument(nil, generated))
	assert.Error(t, err)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}

type fakePutter struct {
	objects map[string][]byte
	inputs  []*s3.PutObjectInput
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = body
	f.inputs = append(f.inputs, in)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkPutsJSONObjects(t *testing.T) {
	fake := &fakePutter{objects: map[string][]byte{}}
	sink := &S3Sink{Client: fake, Bucket: "site", Prefix: "cache/"}

	require.NoError(t, WriteAll(context.Background(), sink, sampleSet(), generated))

	require.Len(t, fake.inputs, 3)
	for _, in := range fake.inputs {
		assert.Equal(t, "site", aws.ToString(in.Bucket))
		assert.Equal(t, "application/json", aws.ToString(in.ContentType))
		assert.Equal(t, config.CacheControl, aws.ToString(in.CacheControl))
	}
	live := readDoc(t, fake.objects["cache/"+config.LiveCacheFile])
	assert.Len(t, live.Items, 1)
	assert.Contains(t, fake.objects, "cache/"+config.PastCacheFile)
}

func TestS3SinkWrapsErrors(t *testing.T) {
	cause := errors.New("access denied")
	sink := &S3Sink{Client: &fakePutter{err: cause}, Bucket: "site"}

	err := sink.Write(context.Background(), Live, types.NewCacheDocument(nil, generated))
	assert.ErrorIs(t, err, cause)
}

func TestRedisSinkStoresDocuments(t *testing.T) {
	mr := miniredis.RunT(t)

	sink, err := NewRedisSink(context.Background(), config.RedisConfig{Addr: mr.Addr(), Prefix: "ehow:"}, nil)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, WriteAll(context.Background(), sink, sampleSet(), generated))

	raw, err := mr.Get("ehow:live")
	require.NoError(t, err)
	doc := readDoc(t, []byte(raw))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "live-1", doc.Items[0].ID)
	assert.True(t, mr.Exists("ehow:upcoming"))
	assert.True(t, mr.Exists("ehow:past"))
}

func TestNewRedisSinkFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisSink(context.Background(), config.RedisConfig{Addr: addr}, nil)
	assert.Error(t, err)
}

type failingSink struct{ calls int }

func (f *failingSink) Write(context.Context, string, types.CacheDocument) error {
	f.calls++
	return errors.New("disk full")
}

type countingSink struct{ names []string }

func (c *countingSink) Write(_ context.Context, name string, _ types.CacheDocument) error {
	c.names = append(c.names, name)
	return nil
}

func TestMultiStopsAtFirstError(t *testing.T) {
	first := &countingSink{}
	bad := &failingSink{}
	last := &countingSink{}

	err := WriteAll(context.Background(), Multi{first, bad, last}, sampleSet(), generated)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "write upcoming cache")
	assert.Equal(t, []string{Upcoming}, first.names)
	assert.Equal(t, 1, bad.calls)
	assert.Empty(t, last.names)
}

func TestWriteAllOrder(t *testing.T) {
	c := &countingSink{}
	require.NoError(t, WriteAll(context.Background(), c, types.ResultSet{}, generated))
	assert.Equal(t, []string{Upcoming, Live, Past}, c.names)
}
