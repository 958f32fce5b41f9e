package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-booking/internal/data/entity"
	"study-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoomsSendsJSONHeaderAndCategory(t *testing.T) {
	var gotPath, gotQuery, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("category")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[{"id":"read-1","name":"Reading Room A","time":"6:00 AM","priceNpr":120,"rows":5,"cols":8,"img":""}]`))
	}))
	defer srv.Close()

	units, err := New(srv.URL+"/").Rooms(context.Background(), entity.CategoryReading)
	require.NoError(t, err)

	assert.Equal(t, "/rooms", gotPath)
	assert.Equal(t, "reading", gotQuery)
	assert.Equal(t, "application/json", gotContentType)
	require.Len(t, units, 1)
	assert.Equal(t, 40, units[0].Capacity())
	assert.Equal(t, 120, units[0].PriceNPR)
}

func TestClientClassesPath(t *testing.T) {
	assert.Equal(t, "/classes?category=nmcle", ClassesPath(entity.CategoryNMCLE))
	assert.Equal(t, "/rooms?category=reading", RoomsPath(entity.CategoryReading))
}

func TestClientNon2xxUsesBodyAsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "  blog store offline  ", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Blogs(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "blog store offline", apiErr.Message)
	assert.Contains(t, err.Error(), "503")
}

func TestClientNon2xxEmptyBodyUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Classes(context.Background(), entity.CategoryNMCLE)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestClientCreateBlog(t *testing.T) {
	var got request.CreatePostRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"0b6a9f1e-3a4f-4a63-9a57-3d1c0d6f3c11","title":"T","content":"C","createdAt":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	post, err := New(srv.URL).CreateBlog(context.Background(), request.CreatePostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, request.CreatePostRequest{Title: "T", Content: "C"}, got)
	assert.Equal(t, "0b6a9f1e-3a4f-4a63-9a57-3d1c0d6f3c11", post.ID.String())
	assert.Equal(t, 2026, post.CreatedAt.Year())
}

func TestClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Blogs(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClientHonoursCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[[]entity.Unit](New(srv.URL))(ctx, "/rooms")
	assert.ErrorIs(t, err, context.Canceled)
}
