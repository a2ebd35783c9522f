package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homestyling/internal/config"
	"homestyling/internal/model"
)

func newClientForServer(t *testing.T, server *httptest.Server) *BackendClient {
	t.Helper()
	t.Cleanup(server.Close)
	return NewBackendClient(&config.BackendConfig{
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
		CSRFPrimePath: "/api/products/",
	}, zap.NewNop())
}

func TestPostPrimesCSRFToken(t *testing.T) {
	var primed bool
	var sentToken string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		primed = true
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-xyz"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/api/ai/chat/", func(w http.ResponseWriter, r *http.Request) {
		sentToken = r.Header.Get("X-CSRFToken")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"response":"네"}`))
	})

	client := newClientForServer(t, httptest.NewServer(mux))

	resp, err := client.Chat(context.Background(), &model.ChatRequest{Message: "안녕"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, primed, "first POST must prime the CSRF cookie")
	assert.Equal(t, "tok-xyz", sentToken)
}

func TestPostReusesExistingToken(t *testing.T) {
	primeCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		primeCalls++
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
	})
	mux.HandleFunc("/api/ai/chat/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	client := newClientForServer(t, httptest.NewServer(mux))

	for i := 0; i < 3; i++ {
		_, err := client.Chat(context.Background(), &model.ChatRequest{Message: "안녕"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, primeCalls, "token should be primed once and reused")
}

func TestNormalizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newClientForServer(t, server)
	server.Close()

	_, err := client.GetPortfolio(context.Background(), "pf-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnreachable)
}

func TestNormalizeJSONErrorBody(t *testing.T) {
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"포트폴리오가 없습니다"}`))
	})))

	_, err := client.GetPortfolio(context.Background(), "pf-1")
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusNotFound, backendErr.Status)
	assert.Equal(t, "포트폴리오가 없습니다", backendErr.Detail)
}

func TestNormalizeNonJSONErrorBody(t *testing.T) {
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	})))

	_, err := client.GetPortfolio(context.Background(), "pf-1")
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusBadGateway, backendErr.Status)
	assert.Contains(t, backendErr.Detail, "Bad Gateway")
}

func TestNormalizeNonJSONSuccessBody(t *testing.T) {
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login page</html>"))
	})))

	_, err := client.GetPortfolio(context.Background(), "pf-1")
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Contains(t, backendErr.Detail, "파싱 실패")
}

func TestGetOnboardingSessionDoubleEncoded(t *testing.T) {
	// Older rows store recommendation_result as a JSON string.
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"session": {
				"recommendation_result": "{\"recommendations\":[{\"id\":\"7\",\"name\":\"TV\"}]}"
			}
		}`))
	})))

	result, err := client.GetOnboardingSession(context.Background(), "sid")
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "TV", result.Recommendations[0].Name)
}

func TestGetOnboardingSessionPlainObject(t *testing.T) {
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"session": {
				"recommendation_result": {"recommendations":[{"id":7,"name":"냉장고"}]}
			}
		}`))
	})))

	result, err := client.GetOnboardingSession(context.Background(), "sid")
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "냉장고", result.Recommendations[0].Name)
	assert.Equal(t, "7", result.Recommendations[0].ID.String())
}

func TestProductImageByName(t *testing.T) {
	client := newClientForServer(t, httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "올레드 TV", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"image_url":"http://img/tv"}`))
	})))

	url, err := client.ProductImageByName(context.Background(), "올레드 TV")
	require.NoError(t, err)
	assert.Equal(t, "http://img/tv", url)
}
