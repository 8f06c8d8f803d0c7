package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsWithinReturnWindow(t *testing.T) {
	purchased := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		asOf     time.Time
		window   int
		reason   ReturnReason
		expected bool
	}{
		{"within window", purchased.AddDate(0, 0, 10), 30, ReturnWrongItem, true},
		{"exactly at window", purchased.AddDate(0, 0, 30), 30, ReturnWrongItem, true},
		{"past window", purchased.AddDate(0, 0, 31), 30, ReturnWrongItem, false},
		{"defective bypasses window", purchased.AddDate(0, 0, 400), 30, ReturnDefective, true},
		{"recall bypasses window", purchased.AddDate(0, 0, 400), 30, ReturnRecall, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWithinReturnWindow(purchased, tt.asOf, tt.window, tt.reason))
		})
	}
}

func TestRestockingFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		percent  float64
		reason   ReturnReason
		expected float64
	}{
		{"excess attracts fee", 100, 15, ReturnExcess, 15},
		{"wrong item attracts fee", 200, 10, ReturnWrongItem, 20},
		{"defective waives fee", 100, 15, ReturnDefective, 0},
		{"damaged waives fee", 100, 15, ReturnDamaged, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RestockingFee(tt.subtotal, tt.percent, tt.reason))
		})
	}
}

func TestShouldAutoApproveReturn(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		limit    float64
		reason   ReturnReason
		expected bool
	}{
		{"under threshold", 500, 1000, ReturnWrongItem, true},
		{"at threshold", 1000, 1000, ReturnWrongItem, true},
		{"over threshold", 1500, 1000, ReturnWrongItem, false},
		{"negative amount normalized", -1500, 1000, ReturnWrongItem, false},
		{"defective always approves over threshold", 50000, 1000, ReturnDefective, true},
		{"recall always approves over threshold", 50000, 1000, ReturnRecall, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldAutoApproveReturn(tt.amount, tt.limit, tt.reason))
		})
	}
}
