package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreUpload(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "giventake-uploads", "ap-south-1", "")

	url, err := store.Upload(context.Background(), "donations/1-abc.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://giventake-uploads.s3.ap-south-1.amazonaws.com/donations/1-abc.png", url)
	assert.Equal(t, "giventake-uploads", aws.ToString(client.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(client.put.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.put.ContentLength))
	assert.Equal(t, []byte("png"), client.body)
}

func TestS3StorePublicBaseURL(t *testing.T) {
	store := NewS3Store(&fakeS3{}, "bucket", "us-east-1", "https://cdn.example.com/")

	url, err := store.Upload(context.Background(), "/donations/a.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/donations/a.jpg", url)
}

func TestS3StoreErrors(t *testing.T) {
	store := NewS3Store(&fakeS3{err: errors.New("access denied")}, "bucket", "us-east-1", "")

	_, err := store.Upload(context.Background(), "k", []byte("x"), "text/plain")
	assert.EqualError(t, err, "failed to put object k: access denied")

	err = store.Delete(context.Background(), "k")
	assert.EqualError(t, err, "failed to delete object k: access denied")
}

func TestSupabaseUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewSupabaseStorage("project", "service-key", "uploads").WithBaseURL(srv.URL)

	url, err := store.Upload(context.Background(), "donations/1-abc.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/storage/v1/object/public/uploads/donations/1-abc.png", url)
	assert.Equal(t, "/storage/v1/object/uploads/donations/1-abc.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("png"), gotBody)
}

func TestSupabaseUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
	}))
	defer srv.Close()

	store := NewSupabaseStorage("project", "key", "uploads").WithBaseURL(srv.URL)

	_, err := store.Upload(context.Background(), "a.png", []byte("x"), "image/png")
	assert.EqualError(t, err, `upload failed with status 400: {"error":"Duplicate"}`)
}

func TestSupabaseDelete(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := NewSupabaseStorage("project", "key", "uploads").WithBaseURL(srv.URL)

	require.NoError(t, store.Delete(context.Background(), "a.png"))
	assert.Equal(t, http.MethodDelete, method)
}

func TestSupabaseDefaultBaseURL(t *testing.T) {
	store := NewSupabaseStorage("abcd", "key", "uploads")
	assert.Equal(t, "https://abcd.supabase.co/storage/v1/object/public/uploads/x.png", store.PublicURL("x.png"))
}
