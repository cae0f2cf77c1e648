package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	apihttp "github.com/MrJamesThe3rd/burnrate/internal/http"
	httpanalytics "github.com/MrJamesThe3rd/burnrate/internal/http/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/http/importcsv"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
	"github.com/MrJamesThe3rd/burnrate/internal/report"
)

func newRouter(t *testing.T, opts apihttp.Options) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)

	ledgerSvc := ledger.NewService(ledger.NewMockRepository(ctrl))
	matchingSvc := matching.NewService(matching.NewMockRepository(ctrl))
	engine := analytics.NewEngine(analytics.EngineConfig{
		CacheSize:   4,
		CacheTTL:    time.Minute,
		TopN:        analytics.DefaultTopN,
		TrendMonths: analytics.DefaultTrendMonths,
	})

	return apihttp.New(
		opts,
		httpanalytics.NewHandler(engine, ledgerSvc, report.NewService(language.English)),
		importcsv.NewHandler(preview.NewService(importer.NewService(), matchingSvc, ledgerSvc, engine), matchingSvc),
	)
}

func TestRouter(t *testing.T) {
	type testCase struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		wantCode    int
	}

	tests := []testCase{
		{
			name:     "Health",
			method:   http.MethodGet,
			target:   "/healthz",
			wantCode: http.StatusOK,
		},
		{
			name:        "AnalyticsJSON",
			method:      http.MethodPost,
			target:      "/api/v1/analytics",
			contentType: "application/json",
			body:        `{}`,
			wantCode:    http.StatusOK,
		},
		{
			name:        "AnalyticsRejectsPlainText",
			method:      http.MethodPost,
			target:      "/api/v1/analytics",
			contentType: "text/plain",
			body:        `{}`,
			wantCode:    http.StatusUnsupportedMediaType,
		},
		{
			name:     "UnknownRoute",
			method:   http.MethodGet,
			target:   "/api/v1/transactions",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			newRouter(t, apihttp.Options{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router := newRouter(t, apihttp.Options{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analytics/stats", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
