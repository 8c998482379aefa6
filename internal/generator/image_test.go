package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/config"
)

func newImageAPI(url string) *ImageAPI {
	return NewImageAPI(config.ImageConfig{APIKey: "img-key", URL: url, Model: "img3", Size: "1024x1024"}, nil)
}

func TestImageAPI_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer img-key", r.Header.Get("Authorization"))

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "img3", req.Model)
		assert.Equal(t, "a red fox", req.Prompt)
		assert.Equal(t, 1, req.NumImages)
		assert.Equal(t, "1024x1024", req.Size)

		_, _ = w.Write([]byte(`{"data":[{"url":"https://cdn.example/fox.png"}]}`))
	}))
	defer srv.Close()

	url, err := newImageAPI(srv.URL).Generate(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/fox.png", url)
}

func TestImageAPI_SurfacesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"prompt rejected"}`))
	}))
	defer srv.Close()

	_, err := newImageAPI(srv.URL).Generate(context.Background(), "x")
	assert.EqualError(t, err, "prompt rejected")
}

func TestImageAPI_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := newImageAPI(srv.URL).Generate(context.Background(), "x")
	assert.EqualError(t, err, "Image generation failed")
}
