package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limit))
	echo := func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, "read failed")
			return
		}
		c.String(http.StatusOK, "%d", len(data))
	}
	r.POST("/dashboard/stores", echo)
	r.GET("/products", echo)
	return r
}

func TestBodyLimit(t *testing.T) {
	storeBody := `{"name":"Sneaker Barn","description":"Running shoes"}`

	tests := []struct {
		name          string
		limit         int64
		method        string
		path          string
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{
			name:          "declared length within limit",
			limit:         1024,
			method:        http.MethodPost,
			path:          "/dashboard/stores",
			body:          storeBody,
			contentLength: int64(len(storeBody)),
			wantStatus:    http.StatusOK,
			wantBody:      strconv.Itoa(len(storeBody)),
		},
		{
			name:          "chunked body within limit",
			limit:         1024,
			method:        http.MethodPost,
			path:          "/dashboard/stores",
			body:          storeBody,
			contentLength: -1,
			wantStatus:    http.StatusOK,
			wantBody:      strconv.Itoa(len(storeBody)),
		},
		{
			name:          "chunked body over limit fails on read",
			limit:         16,
			method:        http.MethodPost,
			path:          "/dashboard/stores",
			body:          storeBody,
			contentLength: -1,
			wantStatus:    http.StatusBadRequest,
			wantBody:      "read failed",
		},
		{
			name:       "bodyless GET passes a tiny limit",
			limit:      1,
			method:     http.MethodGet,
			path:       "/products",
			wantStatus: http.StatusOK,
			wantBody:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.ContentLength = tt.contentLength
			}
			w := httptest.NewRecorder()
			bodyLimitRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestBodyLimit_DeclaredLengthOverLimit(t *testing.T) {
	body := strings.Repeat("x", 300)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/stores", strings.NewReader(body))
	req.ContentLength = int64(len(body))
	w := httptest.NewRecorder()

	bodyLimitRouter(256).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}
