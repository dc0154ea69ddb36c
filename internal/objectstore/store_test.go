package objectstore

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoKey(t *testing.T) {
	key := VideoKey("CASE-42", "walkthrough.MP4")
	assert.True(t, strings.HasPrefix(key, "videos/CASE-42/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))

	// Distinct submissions for one case get distinct keys.
	assert.NotEqual(t, key, VideoKey("CASE-42", "walkthrough.MP4"))

	// No extension falls back to mp4.
	assert.True(t, strings.HasSuffix(VideoKey("CASE-42", "clip"), ".mp4"))
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "reports/report_CASE-42.pdf", ReportKey("CASE-42"))
}

func TestInMemoryPut(t *testing.T) {
	store := NewInMemory()

	url, err := store.Put(context.Background(), "videos/x/y.mp4", "video/mp4", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "memory://videos/x/y.mp4", url)

	data, ok := store.Get("videos/x/y.mp4")
	require.True(t, ok)
	assert.Equal(t, []byte("bytes"), data)
}

type capturingS3 struct {
	input *s3.PutObjectInput
}

func (c *capturingS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.input = params
	return &s3.PutObjectOutput{}, nil
}

func TestS3PutBuildsPublicURL(t *testing.T) {
	client := &capturingS3{}
	store := NewS3(client, "verifai-videos", "ap-south-1")

	url, err := store.Put(context.Background(), "videos/c/v.mp4", "video/mp4", strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://verifai-videos.s3.ap-south-1.amazonaws.com/videos/c/v.mp4", url)
	require.NotNil(t, client.input)
	assert.Equal(t, "verifai-videos", *client.input.Bucket)
	assert.Equal(t, "video/mp4", *client.input.ContentType)
}
