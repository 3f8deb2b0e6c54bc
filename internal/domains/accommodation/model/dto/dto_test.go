package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookinn/internal/domains/accommodation/model/dto"
	gDto "bookinn/shared/dto"
	"bookinn/shared/failure"
)

func filterRequest(t *testing.T, query string) *http.Request {
	t.Helper()

	return httptest.NewRequest(http.MethodGet, "/v1/accommodations?"+query, nil)
}

func TestAccommodationFilter_FromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, f dto.AccommodationFilter)
	}{
		{
			name:  "empty query leaves every field absent",
			query: "",
			check: func(t *testing.T, f dto.AccommodationFilter) {
				assert.Empty(t, f.Name)
				assert.Nil(t, f.MinPrice)
				assert.Nil(t, f.MaxPrice)
				assert.Nil(t, f.GuestNumber)
				assert.Nil(t, f.FromDate)
				assert.Nil(t, f.ToDate)
			},
		},
		{
			name:  "all criteria present",
			query: "name=cabin&location=oslo&min_price=50&max_price=200&guest_number=4&from_date=2026-09-10&to_date=2026-09-15",
			check: func(t *testing.T, f dto.AccommodationFilter) {
				assert.Equal(t, "cabin", f.Name)
				assert.Equal(t, "oslo", f.Location)
				assert.Equal(t, 50.0, *f.MinPrice)
				assert.Equal(t, 200.0, *f.MaxPrice)
				assert.Equal(t, 4, *f.GuestNumber)
				assert.NotNil(t, f.FromDate)
				assert.NotNil(t, f.ToDate)
			},
		},
		{
			name:  "malformed numbers are treated as absent",
			query: "min_price=cheap&guest_number=many",
			check: func(t *testing.T, f dto.AccommodationFilter) {
				assert.Nil(t, f.MinPrice)
				assert.Nil(t, f.GuestNumber)
			},
		},
		{
			name:    "malformed from_date is rejected",
			query:   "from_date=next-week",
			wantErr: true,
		},
		{
			name:    "malformed to_date is rejected",
			query:   "to_date=15-09-2026",
			wantErr: true,
		},
		{
			name:    "from_date after to_date is rejected",
			query:   "from_date=2026-09-20&to_date=2026-09-10",
			wantErr: true,
		},
		{
			name:  "single-day window is allowed",
			query: "from_date=2026-09-10&to_date=2026-09-10",
			check: func(t *testing.T, f dto.AccommodationFilter) {
				assert.Equal(t, *f.FromDate, *f.ToDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f dto.AccommodationFilter

			err := f.FromRequest(filterRequest(t, tt.query))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestAccommodationFilter_ToFilterGroup(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		var f dto.AccommodationFilter

		group := f.ToFilterGroup()

		assert.Empty(t, group.Filters)
	})

	t.Run("each present criterion adds one clause", func(t *testing.T) {
		minPrice := 50.0
		guests := 2

		f := dto.AccommodationFilter{
			Name:        "cabin",
			MinPrice:    &minPrice,
			GuestNumber: &guests,
		}

		group := f.ToFilterGroup()

		assert.Equal(t, gDto.FilterGroupOperatorAnd, group.Operator)
		assert.Len(t, group.Filters, 3)
	})

	t.Run("availability window clauses are inclusive", func(t *testing.T) {
		var f dto.AccommodationFilter

		req := filterRequest(t, "from_date=2026-09-10&to_date=2026-09-15")
		assert.NoError(t, f.FromRequest(req))

		group := f.ToFilterGroup()
		assert.Len(t, group.Filters, 2)

		operators := make([]string, 0, len(group.Filters))

		for _, raw := range group.Filters {
			filter, ok := raw.(gDto.Filter)
			assert.True(t, ok)

			operators = append(operators, filter.Operator)
		}

		assert.Contains(t, operators, gDto.FilterOperatorGreaterEq)
		assert.Contains(t, operators, gDto.FilterOperatorLessEq)
	})
}
