package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stockcharts/internal/app/router"
	"stockcharts/internal/feature/charts/domain/entity"
	chartshandler "stockcharts/internal/feature/charts/transport/handler"
	"stockcharts/internal/feature/charts/usecase"
)

type stubUsecase struct{}

func (stubUsecase) Generate(ctx context.Context, trigger string) (usecase.Result, error) {
	return usecase.Result{Elapsed: 250 * time.Millisecond}, nil
}

func (stubUsecase) RecentRuns(ctx context.Context, limit int) ([]entity.Run, error) {
	return []entity.Run{}, nil
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := router.NewRouter(chartshandler.NewChartsHandler(stubUsecase{}), t.TempDir())

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/runs", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/healthz", http.StatusOK},
		{http.MethodOptions, "/healthz", http.StatusNoContent},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestNewRouter_RootBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := router.NewRouter(chartshandler.NewChartsHandler(stubUsecase{}), t.TempDir())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "Line charts generated and saved locally!<br>Time taken: 0.25 seconds", w.Body.String())
}
