package services

import (
	"testing"
	"time"

	"freshpress-pos/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestAlarmLevelFor(t *testing.T) {
	now := time.Now()
	in2h := now.Add(2 * time.Hour)
	in2d := now.Add(48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		desired *time.Time
		status  domain.OrderStatus
		want    domain.AlarmLevel
	}{
		{"no desired date", nil, domain.OrderProcessing, domain.AlarmNormal},
		{"far away", &in2d, domain.OrderProcessing, domain.AlarmNormal},
		{"inside the warning window", &in2h, domain.OrderProcessing, domain.AlarmWarning},
		{"past due still processing", &yesterday, domain.OrderProcessing, domain.AlarmOverdue},
		{"past due but hanging ready", &yesterday, domain.OrderReadyForPickup, domain.AlarmOverduePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFor(tt.desired, tt.status, now))
		})
	}
}
