package importcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/http/importcsv"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
)

const genericExport = "date,name,amount,currency,category\n" +
	"2026-02-01,Rent,900.00,EUR,housing\n" +
	"2026-02-03,Groceries,100.00,EUR,food\n"

type importBody struct {
	Imported    int `json:"imported"`
	Categorized int `json:"categorized"`
	Costs       []struct {
		Name      string  `json:"name"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category"`
		ProjectID string  `json:"projectId"`
	} `json:"costs"`
	Analytics struct {
		TotalCosts        float64 `json:"totalCosts"`
		TotalBudgets      float64 `json:"totalBudgets"`
		BudgetUtilization float64 `json:"budgetUtilization"`
		CategoryBreakdown []struct {
			Category string  `json:"category"`
			Costs    float64 `json:"costs"`
		} `json:"categoryBreakdown"`
		MonthlyTrend []struct {
			Month string `json:"month"`
		} `json:"monthlyTrend"`
		BudgetVsActual []struct {
			Category string  `json:"category"`
			Budgeted float64 `json:"budgeted"`
			Actual   float64 `json:"actual"`
			Variance float64 `json:"variance"`
		} `json:"budgetVsActual"`
		TopCategories []struct {
			Category string  `json:"category"`
			Total    float64 `json:"total"`
		} `json:"topCategories"`
	} `json:"analytics"`
	Insights []struct {
		Title    string  `json:"title"`
		Category string  `json:"category"`
		Value    float64 `json:"value"`
	} `json:"insights"`
}

func newRouter(
	t *testing.T,
	setupLedger func(m *ledger.MockRepository),
	setupRules func(m *matching.MockRepository),
) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	if setupLedger != nil {
		setupLedger(repo)
	}

	rules := matching.NewMockRepository(ctrl)
	if setupRules != nil {
		setupRules(rules)
	}

	engine := analytics.NewEngine(analytics.EngineConfig{
		CacheSize:   8,
		CacheTTL:    time.Minute,
		TopN:        analytics.DefaultTopN,
		TrendMonths: analytics.DefaultTrendMonths,
	})

	matchingSvc := matching.NewService(rules)
	previewSvc := preview.NewService(importer.NewService(), matchingSvc, ledger.NewService(repo), engine)

	h := importcsv.NewHandler(previewSvc, matchingSvc)

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return r
}

func upload(t *testing.T, fields map[string]string, file string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "export.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/analytics", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandler_ImportAnalytics(t *testing.T) {
	filter := ledger.Filter{ProjectID: new("alpha")}

	router := newRouter(t, func(m *ledger.MockRepository) {
		m.EXPECT().GetProject(gomock.Any(), "alpha").Return(&ledger.Project{ID: "alpha", Name: "Alpha"}, nil)
		m.EXPECT().ListCosts(gomock.Any(), filter).Return([]finance.Cost{{ID: "stored", Amount: decimal.NewFromInt(5000)}}, nil)
		m.EXPECT().ListExpenses(gomock.Any(), filter).Return(nil, nil)
		m.EXPECT().ListBudgets(gomock.Any(), filter).Return([]finance.Budget{{
			Amount:    decimal.NewFromInt(2000),
			Category:  finance.CategoryHousing,
			Period:    finance.PeriodMonthly,
			ProjectID: "alpha",
		}}, nil)
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, map[string]string{"format": "generic", "projectId": "alpha"}, genericExport))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got importBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 2, got.Imported)
	require.Len(t, got.Costs, 2)
	assert.Equal(t, "Rent", got.Costs[0].Name)
	assert.Equal(t, "alpha", got.Costs[0].ProjectID)

	// Stored costs are replaced by the upload.
	a := got.Analytics
	assert.InDelta(t, 1000, a.TotalCosts, 1e-9)
	assert.InDelta(t, 2000, a.TotalBudgets, 1e-9)
	assert.InDelta(t, 50, a.BudgetUtilization, 1e-9)

	require.Len(t, a.CategoryBreakdown, len(finance.Categories()))
	assert.Equal(t, "housing", a.CategoryBreakdown[2].Category)
	assert.InDelta(t, 900, a.CategoryBreakdown[2].Costs, 1e-9)

	assert.Len(t, a.MonthlyTrend, analytics.DefaultTrendMonths)

	require.Len(t, a.BudgetVsActual, len(finance.Categories()))
	assert.InDelta(t, 2000, a.BudgetVsActual[2].Budgeted, 1e-9)
	assert.InDelta(t, 900, a.BudgetVsActual[2].Actual, 1e-9)
	assert.InDelta(t, -1100, a.BudgetVsActual[2].Variance, 1e-9)

	require.Len(t, a.TopCategories, 2)
	assert.Equal(t, "housing", a.TopCategories[0].Category)
	assert.Equal(t, "food", a.TopCategories[1].Category)

	require.Len(t, got.Insights, 2)
	assert.Equal(t, "High Spending Concentration", got.Insights[0].Title)
	assert.InDelta(t, 90, got.Insights[0].Value, 1e-9)
	assert.Equal(t, "Savings Opportunity", got.Insights[1].Title)
	assert.Equal(t, "housing", got.Insights[1].Category)
	assert.InDelta(t, 1100, got.Insights[1].Value, 1e-9)
}

func TestHandler_ImportAnalyticsErrors(t *testing.T) {
	type testCase struct {
		name      string
		fields    map[string]string
		file      string
		setupMock func(m *ledger.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name:     "MissingFile",
			fields:   map[string]string{"format": "generic"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownFormat",
			fields:   map[string]string{"format": "ofx"},
			file:     genericExport,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnrecognisedHeaders",
			fields:   map[string]string{"format": "generic"},
			file:     "when,how much\n2026-01-01,10\n",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "UnknownProject",
			fields: map[string]string{"projectId": "ghost"},
			file:   genericExport,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetProject(gomock.Any(), "ghost").Return(nil, ledger.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(t, tt.setupMock, nil).ServeHTTP(rec, upload(t, tt.fields, tt.file))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_ImportCategorizesWithRules(t *testing.T) {
	export := "date,name,amount,currency,category\n" +
		"2026-02-01,COMPRA CONTINENTE,42.50,EUR,\n" +
		"2026-02-02,Unknown vendor,7.50,EUR,\n"

	router := newRouter(t,
		func(m *ledger.MockRepository) {
			m.EXPECT().ListCosts(gomock.Any(), ledger.Filter{}).Return(nil, nil)
			m.EXPECT().ListExpenses(gomock.Any(), ledger.Filter{}).Return(nil, nil)
			m.EXPECT().ListBudgets(gomock.Any(), ledger.Filter{}).Return(nil, nil)
		},
		func(m *matching.MockRepository) {
			m.EXPECT().FindMatch(gomock.Any(), "COMPRA CONTINENTE").
				Return(&matching.Rule{Pattern: "CONTINENTE", Category: finance.CategoryFood}, nil)
			m.EXPECT().FindMatch(gomock.Any(), "Unknown vendor").Return(nil, nil)
		},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, nil, export))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got importBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 1, got.Categorized)
	require.Len(t, got.Costs, 2)
	assert.Equal(t, "food", got.Costs[0].Category)
	assert.Equal(t, "other", got.Costs[1].Category)
}

func TestHandler_LearnRule(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		setupMock func(m *matching.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "Stored",
			body: `{"pattern": "UBER", "category": "Transportation"}`,
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), matching.Rule{Pattern: "UBER", Category: finance.CategoryTransportation}).Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "UnknownCategory",
			body:     `{"pattern": "UBER", "category": "rides"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "MalformedBody",
			body:     `{"pattern":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/import/rules", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			newRouter(t, nil, tt.setupMock).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
