package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookinn/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name: "equality",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "PENDING",
				Table:    "reservations",
			},
			wantWhere: "reservations.status = :status",
			wantArgs:  map[string]any{"status": "PENDING"},
		},
		{
			name: "strict less for half-open ranges",
			filter: dto.Filter{
				ArgName:  "new_check_out",
				Field:    "check_in_date",
				Operator: dto.FilterOperatorLess,
				Value:    "2026-09-15",
				Table:    "reservations",
			},
			wantWhere: "reservations.check_in_date < :new_check_out",
			wantArgs:  map[string]any{"new_check_out": "2026-09-15"},
		},
		{
			name: "strict greater for half-open ranges",
			filter: dto.Filter{
				ArgName:  "new_check_in",
				Field:    "check_out_date",
				Operator: dto.FilterOperatorGreater,
				Value:    "2026-09-10",
				Table:    "reservations",
			},
			wantWhere: "reservations.check_out_date > :new_check_in",
			wantArgs:  map[string]any{"new_check_in": "2026-09-10"},
		},
		{
			name: "inclusive bound",
			filter: dto.Filter{
				ArgName:  "min_price",
				Field:    "price",
				Operator: dto.FilterOperatorGreaterEq,
				Value:    50.0,
				Table:    "accommodations",
			},
			wantWhere: "accommodations.price >= :min_price",
			wantArgs:  map[string]any{"min_price": 50.0},
		},
		{
			name: "not equal",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorNotEq,
				Value:    "CANCELLED",
				Table:    "reservations",
			},
			wantWhere: "reservations.status != :status",
			wantArgs:  map[string]any{"status": "CANCELLED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("empty group produces no clause", func(t *testing.T) {
		group := dto.FilterGroup{}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("filters join on the group operator", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "user_id", Operator: dto.FilterOperatorEq, Value: "u1"},
				dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "CANCELLED"},
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(user_id = :user_id AND status != :status)", where)
		assert.Equal(t, map[string]any{"user_id": "u1", "status": "CANCELLED"}, args)
	})
}
