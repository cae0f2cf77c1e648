package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

func TestService_Load(t *testing.T) {
	costs := []finance.Cost{{ID: "c1", Amount: decimal.NewFromInt(10), Category: finance.CategoryFood}}
	expenses := []finance.Expense{{ID: "e1", Amount: decimal.NewFromInt(5), Frequency: finance.FrequencyMonthly, IsActive: true}}
	budgets := []finance.Budget{{ID: "b1", Amount: decimal.NewFromInt(100), Period: finance.PeriodMonthly}}

	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		want      analytics.Input
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().ListCosts(gomock.Any(), ledger.Filter{}).Return(costs, nil)
				m.EXPECT().ListExpenses(gomock.Any(), ledger.Filter{}).Return(expenses, nil)
				m.EXPECT().ListBudgets(gomock.Any(), ledger.Filter{}).Return(budgets, nil)
			},
			want: analytics.Input{Costs: costs, Expenses: expenses, Budgets: budgets},
		},
		{
			name: "RepoError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().ListCosts(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
				m.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).Return(expenses, nil).AnyTimes()
				m.EXPECT().ListBudgets(gomock.Any(), gomock.Any()).Return(budgets, nil).AnyTimes()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := ledger.NewService(repo)
			got, err := svc.Load(context.Background(), ledger.Filter{})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "listing costs")
				assert.Zero(t, got.Len())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_FilterFor(t *testing.T) {
	type args struct {
		id string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *ledger.MockRepository)
		want      ledger.Filter
		wantErr   error
	}

	tests := []testCase{
		{name: "Empty", args: args{id: ""}, want: ledger.Filter{}},
		{name: "All", args: args{id: analytics.ProjectAll}, want: ledger.Filter{}},
		{name: "Unassigned", args: args{id: analytics.ProjectUnassigned}, want: ledger.Filter{ProjectID: new("")}},
		{
			name: "Existing",
			args: args{id: "alpha"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetProject(gomock.Any(), "alpha").Return(&ledger.Project{ID: "alpha", Name: "Alpha"}, nil)
			},
			want: ledger.Filter{ProjectID: new("alpha")},
		},
		{
			name: "Missing",
			args: args{id: "ghost"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetProject(gomock.Any(), "ghost").Return(nil, ledger.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := ledger.NewService(repo).FilterFor(context.Background(), tt.args.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_LoadProject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	filter := ledger.Filter{ProjectID: new("alpha")}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().GetProject(gomock.Any(), "alpha").Return(&ledger.Project{ID: "alpha"}, nil)
	repo.EXPECT().ListCosts(gomock.Any(), filter).Return(nil, nil)
	repo.EXPECT().ListExpenses(gomock.Any(), filter).Return(nil, nil)
	repo.EXPECT().ListBudgets(gomock.Any(), filter).Return([]finance.Budget{{ID: "b1", ProjectID: "alpha"}}, nil)

	got, err := ledger.NewService(repo).LoadProject(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Len(t, got.Budgets, 1)
}
