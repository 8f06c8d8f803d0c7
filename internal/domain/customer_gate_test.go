package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCustomerGateCheck(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	tests := []struct {
		name           string
		status         CustomerStatus
		expectedAllow  bool
		expectedReason string
	}{
		{"active customer allowed", CustomerActive, true, ""},
		{"blacklisted customer rejected", CustomerBlacklisted, false, "customer is blacklisted"},
		{"inactive customer rejected", CustomerInactive, false, "customer is not active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := NewMockCustomerRepository(ctrl)
			repo.EXPECT().GetByID(ctx, nil, customerID).Return(&Customer{ID: customerID, Status: tt.status}, nil)

			gate := NewCustomerGate(repo)
			allow, reason, err := gate.Check(ctx, nil, customerID)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedAllow, allow)
			assert.Equal(t, tt.expectedReason, reason)
		})
	}
}
