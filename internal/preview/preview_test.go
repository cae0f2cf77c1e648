package preview_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
)

const export = "date,name,amount,currency,category,project\n" +
	"2026-02-01,Rent,900.00,EUR,housing,\n" +
	"2026-02-03,Groceries,100.00,EUR,food,beta\n"

func newService(
	t *testing.T,
	setupLedger func(m *ledger.MockRepository),
	setupRules func(m *matching.MockRepository),
) *preview.Service {
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

	return preview.NewService(importer.NewService(), matching.NewService(rules), ledger.NewService(repo), engine)
}

func TestService_PreviewProjectScope(t *testing.T) {
	filter := ledger.Filter{ProjectID: new("alpha")}

	svc := newService(t, func(m *ledger.MockRepository) {
		m.EXPECT().GetProject(gomock.Any(), "alpha").Return(&ledger.Project{ID: "alpha", Name: "Alpha"}, nil)
		m.EXPECT().ListCosts(gomock.Any(), filter).Return([]finance.Cost{{ID: "stored", Amount: decimal.NewFromInt(5000), ProjectID: "alpha"}}, nil)
		m.EXPECT().ListExpenses(gomock.Any(), filter).Return(nil, nil)
		m.EXPECT().ListBudgets(gomock.Any(), filter).Return([]finance.Budget{{
			Amount:    decimal.NewFromInt(2000),
			Category:  finance.CategoryHousing,
			Period:    finance.PeriodMonthly,
			ProjectID: "alpha",
		}}, nil)
	}, nil)

	res, err := svc.Preview(context.Background(), preview.Request{
		Format:      importer.FormatGeneric,
		File:        strings.NewReader(export),
		ProjectID:   "alpha",
		TrendMonths: 3,
	})
	require.NoError(t, err)

	require.Len(t, res.Costs, 2)
	assert.Equal(t, "alpha", res.Costs[0].ProjectID)
	assert.Equal(t, "beta", res.Costs[1].ProjectID)
	assert.Equal(t, 1, res.OutOfScope)
	assert.Equal(t, 0, res.Categorized)

	// The stored cost is replaced and the beta row is outside the scope.
	assert.True(t, decimal.NewFromInt(900).Equal(res.Analytics.TotalCosts), res.Analytics.TotalCosts.String())
	assert.True(t, decimal.NewFromInt(45).Equal(res.Analytics.BudgetUtilization), res.Analytics.BudgetUtilization.String())
	assert.Len(t, res.Analytics.MonthlyTrend, 3)
	assert.NotEmpty(t, res.Insights)
}

func TestService_PreviewAllKeepsForeignProjects(t *testing.T) {
	svc := newService(t, func(m *ledger.MockRepository) {
		m.EXPECT().ListCosts(gomock.Any(), ledger.Filter{}).Return(nil, nil)
		m.EXPECT().ListExpenses(gomock.Any(), ledger.Filter{}).Return(nil, nil)
		m.EXPECT().ListBudgets(gomock.Any(), ledger.Filter{}).Return(nil, nil)
	}, nil)

	res, err := svc.Preview(context.Background(), preview.Request{
		Format:    importer.FormatGeneric,
		File:      strings.NewReader(export),
		ProjectID: analytics.ProjectAll,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Costs[0].ProjectID)
	assert.Zero(t, res.OutOfScope)
	assert.True(t, decimal.NewFromInt(1000).Equal(res.Analytics.TotalCosts))
	assert.Len(t, res.Analytics.MonthlyTrend, analytics.DefaultTrendMonths)
}

func TestService_PreviewCategorizesWithRules(t *testing.T) {
	file := "date,name,amount,currency,category\n" +
		"2026-02-01,COMPRA CONTINENTE,42.50,EUR,\n"

	svc := newService(t,
		func(m *ledger.MockRepository) {
			m.EXPECT().ListCosts(gomock.Any(), ledger.Filter{}).Return(nil, nil)
			m.EXPECT().ListExpenses(gomock.Any(), ledger.Filter{}).Return(nil, nil)
			m.EXPECT().ListBudgets(gomock.Any(), ledger.Filter{}).Return(nil, nil)
		},
		func(m *matching.MockRepository) {
			m.EXPECT().FindMatch(gomock.Any(), "COMPRA CONTINENTE").
				Return(&matching.Rule{Pattern: "CONTINENTE", Category: finance.CategoryFood}, nil)
		},
	)

	res, err := svc.Preview(context.Background(), preview.Request{
		Format: importer.FormatGeneric,
		File:   strings.NewReader(file),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Categorized)
	assert.Equal(t, finance.CategoryFood, res.Costs[0].Category)
	require.NotEmpty(t, res.Analytics.TopCategories)
	assert.Equal(t, finance.CategoryFood, res.Analytics.TopCategories[0].Category)
}

func TestService_PreviewErrors(t *testing.T) {
	errDB := errors.New("connection reset")

	type args struct {
		format    importer.Format
		file      string
		projectID string
	}

	type testCase struct {
		name        string
		args        args
		setupLedger func(m *ledger.MockRepository)
		setupRules  func(m *matching.MockRepository)
		wantErr     error
	}

	tests := []testCase{
		{
			name:    "UnknownFormat",
			args:    args{format: "ofx", file: export},
			wantErr: preview.ErrInvalidExport,
		},
		{
			name:    "MissingRequiredColumns",
			args:    args{format: importer.FormatGeneric, file: "when,how much\n2026-01-01,10\n"},
			wantErr: preview.ErrInvalidExport,
		},
		{
			name: "RuleLookupFails",
			args: args{format: importer.FormatGeneric, file: "date,name,amount,category\n2026-01-01,Shop,10,\n"},
			setupRules: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), "Shop").Return(nil, errDB)
			},
			wantErr: errDB,
		},
		{
			name: "UnknownProject",
			args: args{format: importer.FormatGeneric, file: export, projectID: "ghost"},
			setupLedger: func(m *ledger.MockRepository) {
				m.EXPECT().GetProject(gomock.Any(), "ghost").Return(nil, ledger.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.setupLedger, tt.setupRules)

			_, err := svc.Preview(context.Background(), preview.Request{
				Format:    tt.args.format,
				File:      strings.NewReader(tt.args.file),
				ProjectID: tt.args.projectID,
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
