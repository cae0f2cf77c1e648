package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern  string
		category finance.Category
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{pattern: "  CONTINENTE ", category: finance.CategoryFood},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), matching.Rule{Pattern: "CONTINENTE", Category: finance.CategoryFood}).Return(nil)
			},
		},
		{
			name:    "EmptyPattern",
			args:    args{pattern: "   ", category: finance.CategoryFood},
			wantErr: matching.ErrInvalidRule,
		},
		{
			name:    "UnknownCategory",
			args:    args{pattern: "UBER", category: "rides"},
			wantErr: matching.ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.category)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Categorize(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "COMPRA CONTINENTE LISBOA").
		Return(&matching.Rule{Pattern: "CONTINENTE", Category: finance.CategoryFood}, nil)
	repo.EXPECT().FindMatch(gomock.Any(), "Mystery shop").Return(nil, nil)

	costs := []finance.Cost{
		{ID: "1", Name: "Groceries", Description: "COMPRA CONTINENTE LISBOA", Category: finance.CategoryOther},
		{ID: "2", Name: "Mystery shop", Category: finance.CategoryOther},
		{ID: "3", Description: "RENT", Category: finance.CategoryHousing},
	}

	changed, err := matching.NewService(repo).Categorize(context.Background(), costs)
	require.NoError(t, err)

	assert.Equal(t, 1, changed)
	assert.Equal(t, finance.CategoryFood, costs[0].Category)
	assert.Equal(t, finance.CategoryOther, costs[1].Category)
	assert.Equal(t, finance.CategoryHousing, costs[2].Category)
}

func TestService_CategorizeRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))

	costs := []finance.Cost{{ID: "1", Name: "Anything", Category: finance.CategoryOther}}

	_, err := matching.NewService(repo).Categorize(context.Background(), costs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching cost")
}
