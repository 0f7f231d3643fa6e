package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"cvai-core/internal/shared/storage/kv"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	lastPut *s3.PutObjectInput
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "cvs.json", want: "cvs.json"},
		{name: "simple prefix", prefix: "root", key: "cvs.json", want: "root/cvs.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "cvs.json", want: "root/cvs.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/cvs.json", want: "root/cvs.json"},
		{name: "nested prefix", prefix: "root/sub", key: "cvs.json", want: "root/sub/cvs.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestMediumRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	m := newWithClient(fake, "bucket", "/cvai/")

	got, err := m.Get(ctx, "cvs")
	if err != nil || got != nil {
		t.Fatalf("expected absent key, got %q err=%v", got, err)
	}

	if err := m.Set(ctx, "cvs", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.objects["cvai/cvs.json"]; !ok {
		t.Fatalf("expected object under prefixed key, have %v", fake.objects)
	}
	if aws.ToString(fake.lastPut.ContentType) != contentTypeJSON {
		t.Fatalf("unexpected content type %q", aws.ToString(fake.lastPut.ContentType))
	}

	got, err = m.Get(ctx, "cvs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := m.Remove(ctx, "cvs"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Remove(ctx, "cvs"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	got, err = m.Get(ctx, "cvs")
	if err != nil || got != nil {
		t.Fatalf("expected absent after remove, got %q err=%v", got, err)
	}
}

func TestMediumPutErrorIsWrapped(t *testing.T) {
	fake := newFakeObjects()
	fake.putErr = errors.New("throttled")
	m := newWithClient(fake, "bucket", "")

	err := m.Set(context.Background(), "cvs", []byte("[]"))
	if err == nil || !errors.Is(err, fake.putErr) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}

func TestMediumRejectsInvalidKey(t *testing.T) {
	m := newWithClient(newFakeObjects(), "bucket", "")
	if _, err := m.Get(context.Background(), "../cvs"); !errors.Is(err, kv.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", " ", ""); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
