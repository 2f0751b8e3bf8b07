package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/brandonsmith301/text-to-sql/internal/storage"
)

type fakeClient struct {
	objects map[string]string
	putKeys []string
}

func (f *fakeClient) Get(_ context.Context, _, key string) (io.ReadCloser, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeClient) Put(_ context.Context, _, key string, reader io.Reader, _ int64, _ string) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.objects[key] = string(data)
	f.putKeys = append(f.putKeys, key)
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeClient) Stat(_ context.Context, _, key string) (storage.ObjectInfo, error) {
	body, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(body))}, nil
}

func TestStorePrefixesKeys(t *testing.T) {
	client := &fakeClient{objects: map[string]string{}}
	store, err := NewWithClient("bucket", "/schemas/", client)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	if _, err := store.Put(context.Background(), "context.sql", bytes.NewReader([]byte("body")), 4, storage.PutOptions{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if len(client.putKeys) != 1 || client.putKeys[0] != "schemas/context.sql" {
		t.Fatalf("put keys = %v", client.putKeys)
	}

	reader, err := store.Get(context.Background(), "/context.sql")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	data, _ := io.ReadAll(reader)
	_ = reader.Close()
	if string(data) != "body" {
		t.Fatalf("Get() = %q", data)
	}

	info, err := store.Stat(context.Background(), "context.sql")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size != 4 {
		t.Fatalf("Stat().Size = %d", info.Size)
	}
}

func TestStoreMissingObject(t *testing.T) {
	store, err := NewWithClient("bucket", "", &fakeClient{objects: map[string]string{}})
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Get() error = %v, want ErrObjectNotFound", err)
	}
	if _, err := store.Stat(context.Background(), "absent"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Stat() error = %v, want ErrObjectNotFound", err)
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	store, err := NewWithClient("bucket", "schemas", &fakeClient{objects: map[string]string{}})
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	for _, key := range []string{"", "   ", "../escape", "a/../../b"} {
		if _, err := store.Get(context.Background(), key); err == nil {
			t.Fatalf("Get(%q) = nil error", key)
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{raw: "localhost:9000", useSSL: false, wantHost: "localhost:9000", wantSecure: false},
		{raw: "http://localhost:9000", useSSL: false, wantHost: "localhost:9000", wantSecure: false},
		{raw: "https://s3.example.com", useSSL: false, wantHost: "s3.example.com", wantSecure: true},
		{raw: "minio:9000", useSSL: true, wantHost: "minio:9000", wantSecure: true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.raw, tc.useSSL)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error = %v", tc.raw, err)
		}
		if host != tc.wantHost || secure != tc.wantSecure {
			t.Fatalf("parseEndpoint(%q) = (%q, %v), want (%q, %v)", tc.raw, host, secure, tc.wantHost, tc.wantSecure)
		}
	}
}
