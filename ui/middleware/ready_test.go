package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialpulse/internal"
	"socialpulse/internal/dataset"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus dataset.Status

func (f fixedStatus) Status() dataset.Status { return dataset.Status(f) }

func router(status dataset.Status) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(internal.DefaultLogger))
	r.GET("/data", RequireReady(fixedStatus(status)), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireReady(t *testing.T) {
	tests := []struct {
		name     string
		status   dataset.Status
		wantCode int
		wantText string
	}{
		{"pending", dataset.Status{State: dataset.StatePending}, http.StatusServiceUnavailable, "still loading"},
		{"failed", dataset.Status{State: dataset.StateFailed, Error: "posts.csv not found"}, http.StatusServiceUnavailable, "posts.csv not found"},
		{"ready", dataset.Status{State: dataset.StateReady}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router(tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantText == "" {
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.wantText)
			assert.Equal(t, "NOT_READY", body["code"])
		})
	}
}
