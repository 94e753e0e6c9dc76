package detection

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUploadRequest(t *testing.T, path string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "leaf.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newRouter(disease, pest *Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(disease, pest, zap.NewNop())
	handler.RegisterRoutes(r.Group("/api"))
	return r
}

func TestPredictRelaysUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "leaf.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"prediction": "leaf_blight",
			"confidence": 0.91,
		})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, 5*time.Second)
	r := newRouter(client, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newUploadRequest(t, "/api/disease/predict"))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "leaf_blight", resp["prediction"])
	assert.InDelta(t, 0.91, resp["confidence"].(float64), 1e-9)
}

func TestPredictUpstreamErrorCollapsesTo500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, 5*time.Second)
	r := newRouter(client, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newUploadRequest(t, "/api/pest/predict"))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Proxy server error", resp["error"])
}

func TestPredictMissingFileIs500(t *testing.T) {
	client := NewClient("http://localhost:1", time.Second)
	r := newRouter(client, client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/disease/predict", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Proxy server error", resp["error"])
}

func TestPredictRejectsMalformedUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, 5*time.Second)
	r := newRouter(client, client)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newUploadRequest(t, "/api/disease/predict"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
