package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

// PaymentCallback carries one provider webhook delivery. Payload is an opaque
// audit blob persisted verbatim; the reconciler never parses it.
type PaymentCallback struct {
	OrderID          uint
	Provider         string
	Payload          string
	ProviderChargeID string
	TelegramChargeID string
	Status           string
}

// ApplyCallback outcomes.
const (
	ApplyOutcomeApplied        = "applied"
	ApplyOutcomeAlreadyApplied = "already_applied"
	ApplyOutcomeRejected       = "rejected"
)

// ApplyResult is a tagged result rather than an error, so webhook handlers
// can acknowledge receipt regardless of outcome. Anomaly records soft
// conditions (duplicate success on a paid order) for operator logs.
type ApplyResult struct {
	Outcome       string `json:"outcome"`
	PaymentStatus string `json:"payment_status,omitempty"`
	OrderStatus   string `json:"order_status,omitempty"`
	Anomaly       string `json:"anomaly,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// PaymentService applies exactly-once semantics to at-least-once provider
// callbacks. The idempotency key is (provider, provider_charge_id), falling
// back to telegram_charge_id; check-then-insert runs under a per-key lock
// with the database unique index as the backstop.
type PaymentService struct {
	Repo *repo.GormRepo

	keyLocks keyedMutex
}

func (s *PaymentService) ApplyCallback(ctx context.Context, cb PaymentCallback) (*ApplyResult, error) {
	key := cb.ProviderChargeID
	if key == "" {
		key = cb.TelegramChargeID
	}

	if cb.Provider == "" || key == "" || !terminalPaymentStatus(cb.Status) {
		// Keep the raw payload for forensic replay even when the callback is
		// unusable; a synthetic key keeps the unique index out of the way.
		audit := models.Payment{
			OrderID:          cb.OrderID,
			Provider:         cb.Provider,
			ProviderChargeID: "unkeyed-" + uuid.NewString(),
			TelegramChargeID: cb.TelegramChargeID,
			Payload:          cb.Payload,
			Status:           models.PaymentStatusFailed,
		}
		if err := s.Repo.CreatePayment(ctx, &audit); err != nil {
			return nil, err
		}
		return &ApplyResult{Outcome: ApplyOutcomeRejected, Reason: "malformed callback"}, ErrInvalidPayload
	}

	unlock := s.keyLocks.lock(cb.Provider + "/" + key)
	defer unlock()

	payment, err := s.Repo.FindPayment(ctx, cb.Provider, key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if payment != nil && payment.Status != models.PaymentStatusPending {
		return s.replayed(ctx, payment)
	}

	order, err := s.Repo.GetOrder(ctx, cb.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The order may still be mid-creation; nothing is recorded and the
		// webhook dispatcher is expected to retry.
		return &ApplyResult{Outcome: ApplyOutcomeRejected, Reason: "unknown order"}, ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}

	if payment == nil {
		payment = &models.Payment{
			OrderID:          order.ID,
			Provider:         cb.Provider,
			ProviderChargeID: key,
			TelegramChargeID: cb.TelegramChargeID,
			Payload:          cb.Payload,
			Status:           models.PaymentStatusPending,
		}
		if err := s.Repo.CreatePayment(ctx, payment); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race to another process; the key is already taken.
				existing, ferr := s.Repo.FindPayment(ctx, cb.Provider, key)
				if ferr != nil {
					return nil, ferr
				}
				return s.replayed(ctx, existing)
			}
			return nil, err
		}
	}

	if err := s.Repo.UpdatePaymentStatus(ctx, payment.ID, cb.Status); err != nil {
		return nil, err
	}

	result := &ApplyResult{Outcome: ApplyOutcomeApplied, PaymentStatus: cb.Status}

	if cb.Status == models.PaymentStatusFailed {
		// A failed attempt leaves the order pending so the user may retry.
		result.OrderStatus = order.Status
		return result, nil
	}

	moved, err := s.Repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusPaid)
	if err != nil {
		return nil, err
	}
	if moved {
		result.OrderStatus = models.OrderStatusPaid
		return result, nil
	}

	current, err := s.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	result.OrderStatus = current.Status
	if current.Status == models.OrderStatusPaid {
		result.Anomaly = ErrAlreadyPaid.Error()
	} else {
		result.Anomaly = fmt.Sprintf("success reported for %s order", current.Status)
	}
	return result, nil
}

// replayed is the no-op path for a callback whose key already reached a
// terminal payment status: report the existing state without side effects.
func (s *PaymentService) replayed(ctx context.Context, payment *models.Payment) (*ApplyResult, error) {
	order, err := s.Repo.GetOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{
		Outcome:       ApplyOutcomeAlreadyApplied,
		PaymentStatus: payment.Status,
		OrderStatus:   order.Status,
	}, nil
}

// ListOrderPayments exposes the payment attempts of an order for operators.
func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID uint) ([]models.Payment, error) {
	if _, err := s.Repo.GetOrder(ctx, orderID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}
	return s.Repo.ListOrderPayments(ctx, orderID)
}

func terminalPaymentStatus(status string) bool {
	return status == models.PaymentStatusSucceeded || status == models.PaymentStatusFailed
}
