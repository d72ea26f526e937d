package services

import (
	"context"
	"time"

	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
)

// warningWindow is how far before the desired date an order starts
// flagging as warning.
const warningWindow = 24 * time.Hour

// AlarmService keeps order alarm levels in step with their desired
// completion dates.
type AlarmService struct {
	db *gorm.DB
}

// NewAlarmService creates a new alarm service
func NewAlarmService(db *gorm.DB) *AlarmService {
	return &AlarmService{db: db}
}

// Scan re-evaluates the alarm level of every unfinished order whose
// desired date is near or past. Run periodically by the scheduler.
func (s *AlarmService) Scan(ctx context.Context) error {
	orders := repositories.NewOrderRepository(s.db)
	now := time.Now()

	due, err := orders.ListDueBefore(ctx, now.Add(warningWindow))
	if err != nil {
		return domain.WrapErr(domain.KindDbError, err, "scan due orders")
	}

	var flagged int
	for i := range due {
		order := &due[i]
		level := levelFor(order.DesiredDate, domain.OrderStatus(order.Status), now)
		if string(level) == order.AlarmLevel {
			continue
		}
		err := orders.UpdateStatus(ctx, order.ID, map[string]interface{}{
			"alarm_level": string(level),
		})
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "update alarm level")
		}
		flagged++
	}
	if flagged > 0 {
		log.Info().Int("flagged", flagged).Msg("order alarm levels updated")
	}
	return nil
}

// levelFor grades an order against its desired date. An overdue order
// that is already hanging ready is only pending pickup, not late work.
func levelFor(desired *time.Time, status domain.OrderStatus, now time.Time) domain.AlarmLevel {
	if desired == nil {
		return domain.AlarmNormal
	}
	switch {
	case now.After(*desired):
		if status == domain.OrderReadyForPickup {
			return domain.AlarmOverduePending
		}
		return domain.AlarmOverdue
	case now.Add(warningWindow).After(*desired):
		return domain.AlarmWarning
	}
	return domain.AlarmNormal
}
