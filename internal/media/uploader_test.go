package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadReturnsHostedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("auth header = %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "padthai.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"url":"https://img.example/padthai.jpg"}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "key123")
	url, err := u.Upload(context.Background(), "/tmp/photos/padthai.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://img.example/padthai.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadSurfacesHostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "bad")
	if _, err := u.Upload(context.Background(), "x.png", strings.NewReader("png")); err == nil {
		t.Fatalf("expected an error")
	} else if !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("error = %v, want host message included", err)
	}
}

func TestUploadWithoutConfiguredHost(t *testing.T) {
	u := NewUploader("", "")
	if _, err := u.Upload(context.Background(), "x.png", strings.NewReader("png")); err == nil {
		t.Fatalf("expected an error when no host is configured")
	}
}
