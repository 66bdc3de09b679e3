package images

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func newTestUploader(client PutObjectAPI, cfg S3Config) *S3Uploader {
	u := NewS3UploaderWithClient(client, cfg)
	u.newKey = func() string { return "ckey" }
	return u
}

func writeImage(t *testing.T, size int) string {
	t.Helper()
	data := append([]byte(nil), pngHeader...)
	data = append(data, make([]byte, size)...)
	path := filepath.Join(t.TempDir(), "cake.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{"", KindAbsent},
		{"   ", KindAbsent},
		{"data:image/png;base64,AAAA", KindPayload},
		{"https://cdn.example.com/a.jpg", KindLocator},
		{"s3://bucket/key.jpg", KindLocator},
		{"drive-file-id-123", KindLocator},
	}
	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ref))
		})
	}
}

func TestResolve_PassThrough(t *testing.T) {
	r := &Resolver{}
	ctx := context.Background()

	got, err := r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = r.Resolve(ctx, "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got)

	got, err = r.Resolve(ctx, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", got)
}

func TestResolve_SmallFileInlines(t *testing.T) {
	path := writeImage(t, 10)
	r := &Resolver{MaxInline: 1024}

	got, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

	ct, data, err := DecodeDataURL(got)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Len(t, data, len(pngHeader)+10)
}

func TestResolve_LargeFileUploads(t *testing.T) {
	path := writeImage(t, 4096)
	fake := &fakeS3{}
	r := &Resolver{
		MaxInline: 1024,
		Uploader:  newTestUploader(fake, S3Config{Bucket: "cakes", Prefix: "orders/"}),
	}

	got, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "s3://cakes/orders/ckey.png", got)

	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "cakes", aws.ToString(fake.inputs[0].Bucket))
	assert.Equal(t, "orders/ckey.png", aws.ToString(fake.inputs[0].Key))
	assert.Equal(t, "image/png", aws.ToString(fake.inputs[0].ContentType))
	assert.Len(t, fake.bodies[0], len(pngHeader)+4096)
}

func TestResolve_LargeDataURLUploads(t *testing.T) {
	big := EncodeDataURL("image/jpeg", make([]byte, 2048))
	fake := &fakeS3{}
	r := &Resolver{
		MaxInline: 100,
		Uploader:  newTestUploader(fake, S3Config{Bucket: "b", PublicBaseURL: "https://img.example.com/"}),
	}

	got, err := r.Resolve(context.Background(), big)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/ckey.jpg", got)
	assert.Len(t, fake.bodies[0], 2048)
}

func TestResolve_TooLargeWithoutUploader(t *testing.T) {
	path := writeImage(t, 4096)
	r := &Resolver{MaxInline: 1024}

	_, err := r.Resolve(context.Background(), path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestResolve_UploadError(t *testing.T) {
	path := writeImage(t, 4096)
	r := &Resolver{
		MaxInline: 1024,
		Uploader:  newTestUploader(&fakeS3{err: errors.New("denied")}, S3Config{Bucket: "b"}),
	}

	_, err := r.Resolve(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestResolve_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello there"), 0o600))

	_, err := (&Resolver{}).Resolve(context.Background(), path)
	assert.Error(t, err)
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := (&Resolver{}).Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestDecodeDataURL_Errors(t *testing.T) {
	for _, ref := range []string{
		"https://x",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,!!!",
	} {
		_, _, err := DecodeDataURL(ref)
		assert.Error(t, err, ref)
	}
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
