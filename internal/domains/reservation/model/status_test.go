package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookinn/internal/domains/reservation/model"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Status
		wantErr bool
	}{
		{name: "uppercase", input: "CONFIRMED", want: model.StatusConfirmed},
		{name: "lowercase is normalized", input: "pending", want: model.StatusPending},
		{name: "surrounding spaces are trimmed", input: "  CANCELLED ", want: model.StatusCancelled},
		{name: "unknown status", input: "ARCHIVED", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseStatus(tt.input)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   model.Status
		to     model.Status
		wantOK bool
	}{
		{name: "pending to confirmed", from: model.StatusPending, to: model.StatusConfirmed, wantOK: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, wantOK: true},
		{name: "pending to completed", from: model.StatusPending, to: model.StatusCompleted, wantOK: false},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled, wantOK: true},
		{name: "completed is never reached through a status update", from: model.StatusConfirmed, to: model.StatusCompleted, wantOK: false},
		{name: "confirmed back to pending", from: model.StatusConfirmed, to: model.StatusPending, wantOK: false},
		{name: "cancelled is terminal", from: model.StatusCancelled, to: model.StatusConfirmed, wantOK: false},
		{name: "completed is terminal", from: model.StatusCompleted, to: model.StatusCancelled, wantOK: false},
		{name: "no self transition", from: model.StatusPending, to: model.StatusPending, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusConfirmed.IsTerminal())
	assert.True(t, model.StatusCancelled.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
}

func TestActiveStatuses(t *testing.T) {
	active := model.ActiveStatuses()

	assert.Contains(t, active, model.StatusPending)
	assert.Contains(t, active, model.StatusConfirmed)
	assert.Contains(t, active, model.StatusCompleted)
	assert.NotContains(t, active, model.StatusCancelled)
}
