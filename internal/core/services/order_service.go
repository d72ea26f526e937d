package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"
	"freshpress-pos/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MirrorClient pushes local order mutations to the central server.
// Mirror calls run inside the local transaction so a rejected mirror
// rolls the mutation back.
type MirrorClient interface {
	MirrorOrderCreate(ctx context.Context, payload interface{}) error
	MirrorOrderUpdate(ctx context.Context, payload interface{}) error
	MirrorPayment(ctx context.Context, payload interface{}) error
}

var (
	ErrOrderNotFound    = domain.E(domain.KindNotFound, "order not found")
	ErrCustomerNotFound = domain.E(domain.KindNotFound, "customer not found")
)

// OrderService handles intake, garment lifecycle and pickup
type OrderService struct {
	db       *gorm.DB
	remote   MirrorClient
	notifier *SMSService
}

// NewOrderService creates a new order service. remote and notifier may
// be nil in offline or test setups.
func NewOrderService(db *gorm.DB, remote MirrorClient, notifier *SMSService) *OrderService {
	return &OrderService{db: db, remote: remote, notifier: notifier}
}

// IntakeGarment is one garment line of an intake request
type IntakeGarment struct {
	ItemID             uint            `json:"item_id" validate:"required"`
	CategoryCode       string          `json:"category_code"`
	StyleCode          string          `json:"style_code"`
	ColorID            *uint           `json:"color_id"`
	BrandID            *uint           `json:"brand_id"`
	FlawID             *uint           `json:"flaw_id"`
	EstimateID         *uint           `json:"estimate_id"`
	ServiceType        string          `json:"service_type" validate:"required"`
	ServiceRequirement string          `json:"service_requirement"`
	Pictures           []string        `json:"pictures"`
	ProcessSurcharge   decimal.Decimal `json:"process_surcharge"`
	UnitPrice          decimal.Decimal `json:"unit_price" validate:"required"`
	RackType           string          `json:"rack_type" validate:"required"`
}

// IntakeInput is an intake request: who, when, and the garment lines
type IntakeInput struct {
	CustomerID  uint            `json:"customer_id" validate:"required"`
	DesiredDate *time.Time      `json:"desired_date"`
	Remark      string          `json:"remark"`
	Garments    []IntakeGarment `json:"garments" validate:"required,min=1"`
}

// Intake books an order: one transaction creates the order row, hangs
// every garment on a rack slot, and mirrors the order to the central
// server before commit.
func (s *OrderService) Intake(ctx context.Context, storeID uint, input IntakeInput) (*models.Order, error) {
	if len(input.Garments) == 0 {
		return nil, domain.E(domain.KindBadRequest, "an order needs at least one garment")
	}

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		customers := repositories.NewCustomerRepository(tx)

		if _, err := customers.GetByID(ctx, storeID, input.CustomerID); err == gorm.ErrRecordNotFound {
			return ErrCustomerNotFound
		} else if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load customer")
		}

		now := time.Now()
		orderNo, err := orders.NextOrderNo(ctx, storeID, now)
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "generate order number")
		}

		order := &models.Order{
			StoreID:     storeID,
			CustomerID:  input.CustomerID,
			OrderNo:     orderNo,
			DesiredDate: input.DesiredDate,
			Status:      string(domain.OrderProcessing),
			Remark:      input.Remark,
		}
		if err := orders.Create(ctx, order); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "create order")
		}

		hangSeq, err := orders.NextHangSeq(ctx, storeID, now)
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "generate hang sequence")
		}

		for _, line := range input.Garments {
			requirement := line.ServiceRequirement
			if requirement == "" {
				requirement = string(domain.RequirementNormal)
			}

			rack, slot, err := allocateSlot(ctx, tx, storeID, line.RackType)
			if err != nil {
				return err
			}

			garment := &models.Garment{
				StoreID:            storeID,
				OrderID:            &order.ID,
				ItemID:             line.ItemID,
				CategoryCode:       line.CategoryCode,
				StyleCode:          line.StyleCode,
				ColorID:            line.ColorID,
				BrandID:            line.BrandID,
				FlawID:             line.FlawID,
				EstimateID:         line.EstimateID,
				ServiceType:        line.ServiceType,
				ServiceRequirement: requirement,
				Pictures:           strings.Join(line.Pictures, ","),
				ProcessSurcharge:   line.ProcessSurcharge,
				UnitPrice:          line.UnitPrice,
				RackID:             &rack.ID,
				SlotNo:             &slot,
				HangCode:           fmt.Sprintf("H%s-%d-%04d", now.Format("20060102"), storeID, hangSeq),
				Status:             string(domain.GarmentProcessing),
			}
			hangSeq++
			if err := orders.CreateGarment(ctx, garment); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "create garment")
			}
		}

		orderID = order.ID
		if s.remote != nil {
			full, err := orders.GetByID(ctx, storeID, order.ID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "reload order")
			}
			if err := s.remote.MirrorOrderCreate(ctx, full); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, storeID, orderID)
}

// Get returns an order with garments, adjustment and price tags.
func (s *OrderService) Get(ctx context.Context, storeID, orderID uint) (*models.Order, error) {
	order, err := repositories.NewOrderRepository(s.db).GetByID(ctx, storeID, orderID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "load order")
	}
	return order, nil
}

// List returns a page of orders, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, storeID uint, status string, params *pagination.Params) ([]models.Order, int64, error) {
	orders, total, err := repositories.NewOrderRepository(s.db).
		List(ctx, storeID, status, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindDbError, err, "list orders")
	}
	return orders, total, nil
}

// Quote computes the current payable total without settling anything.
func (s *OrderService) Quote(ctx context.Context, storeID, orderID uint) (decimal.Decimal, error) {
	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeOrderTotal(order.Garments, order.PriceTags, order.Adjustment)
}

// AdjustmentInput carries a manual price correction. A non-nil Override
// replaces the computed total; otherwise AddAmount and SubAmount shift it.
type AdjustmentInput struct {
	AddAmount decimal.Decimal  `json:"add_amount"`
	SubAmount decimal.Decimal  `json:"sub_amount"`
	Override  *decimal.Decimal `json:"override"`
	Remark    string           `json:"remark"`
}

// SetAdjustment creates or replaces the order's single adjustment.
// Settled orders cannot be adjusted.
func (s *OrderService) SetAdjustment(ctx context.Context, storeID, orderID uint, input AdjustmentInput) error {
	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return err
	}
	if domain.PaymentStatus(order.PaymentStatus) == domain.PaymentPaid {
		return domain.E(domain.KindBadRequest, "order is already settled")
	}

	adj := &models.Adjustment{
		StoreID:   storeID,
		OrderID:   orderID,
		AddAmount: input.AddAmount,
		SubAmount: input.SubAmount,
		Remark:    input.Remark,
	}
	if input.Override != nil {
		adj.Override = decimal.NewNullDecimal(*input.Override)
	}
	if err := repositories.NewOrderRepository(s.db).UpsertAdjustment(ctx, adj); err != nil {
		return domain.WrapErr(domain.KindDbError, err, "save adjustment")
	}
	return nil
}

// AttachPriceTag appends a price-tag rule behind the order's existing
// ones. Attachment order is application order.
func (s *OrderService) AttachPriceTag(ctx context.Context, storeID, orderID, priceTagID uint) error {
	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return err
	}
	if domain.PaymentStatus(order.PaymentStatus) == domain.PaymentPaid {
		return domain.E(domain.KindBadRequest, "order is already settled")
	}

	orders := repositories.NewOrderRepository(s.db)
	tag, err := orders.GetPriceTag(ctx, storeID, priceTagID)
	if err == gorm.ErrRecordNotFound {
		return domain.E(domain.KindNotFound, "price tag not found")
	}
	if err != nil {
		return domain.WrapErr(domain.KindDbError, err, "load price tag")
	}
	if !tag.IsActive {
		return domain.E(domain.KindBadRequest, "price tag %q is disabled", tag.Name)
	}
	if err := orders.AttachPriceTag(ctx, orderID, tag.ID); err != nil {
		return domain.WrapErr(domain.KindDbError, err, "attach price tag")
	}
	return nil
}

// MarkGarmentReady moves one garment to ready-for-pickup. When it is the
// last outstanding garment the order gets a pickup code, flips to
// ready-for-pickup, is mirrored, and the customer is notified by SMS
// after commit.
func (s *OrderService) MarkGarmentReady(ctx context.Context, storeID, garmentID uint) (*models.Order, error) {
	var orderID uint
	var notify bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		garment, err := orders.GetGarment(ctx, storeID, garmentID)
		if err == gorm.ErrRecordNotFound {
			return domain.E(domain.KindNotFound, "garment not found")
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load garment")
		}
		if domain.GarmentStatus(garment.Status) != domain.GarmentProcessing {
			return domain.E(domain.KindBadRequest, "garment %s is not in processing", garment.HangCode)
		}
		if garment.OrderID == nil {
			return domain.E(domain.KindBadRequest, "garment %s is not attached to an order", garment.HangCode)
		}
		orderID = *garment.OrderID

		garment.Status = string(domain.GarmentReadyForPickup)
		if err := orders.SaveGarment(ctx, garment); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "save garment")
		}

		siblings, err := orders.GarmentsByOrder(ctx, orderID)
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load order garments")
		}
		for _, g := range siblings {
			if !g.IsTerminal() && domain.GarmentStatus(g.Status) != domain.GarmentReadyForPickup {
				return nil
			}
		}

		if _, err := assignPickupCode(func(code string) error {
			err := orders.UpdateStatus(ctx, orderID, map[string]interface{}{
				"status":      string(domain.OrderReadyForPickup),
				"pickup_code": code,
			})
			if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.WrapErr(domain.KindDbError, err, "mark order ready")
			}
			return err
		}); err != nil {
			return err
		}
		notify = true

		if s.remote != nil {
			full, err := orders.GetByID(ctx, storeID, orderID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "reload order")
			}
			return s.remote.MirrorOrderUpdate(ctx, full)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if notify && s.notifier != nil {
		s.notifier.SendPickupNotice(ctx, storeID, order)
	}
	return order, nil
}

// Pickup completes an order by its pickup code: garments leave their
// rack slots, the order flips to completed, and the update is mirrored.
func (s *OrderService) Pickup(ctx context.Context, storeID uint, code string) (*models.Order, error) {
	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		racks := repositories.NewRackRepository(tx)

		order, err := orders.GetByPickupCode(ctx, storeID, code)
		if err == gorm.ErrRecordNotFound {
			return domain.E(domain.KindNotFound, "no order matches pickup code %s", code)
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load order")
		}
		if domain.OrderStatus(order.Status) != domain.OrderReadyForPickup {
			return domain.E(domain.KindBadRequest, "order %s is not ready for pickup", order.OrderNo)
		}
		orderID = order.ID

		for i := range order.Garments {
			g := &order.Garments[i]
			if g.IsTerminal() {
				continue
			}
			g.Status = string(domain.GarmentPickedUp)
			if err := orders.SaveGarment(ctx, g); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "save garment")
			}
			if g.RackID != nil {
				if err := racks.IncrementRemaining(ctx, *g.RackID); err != nil {
					return domain.WrapErr(domain.KindDbError, err, "release slot")
				}
			}
		}

		// Clearing the code frees it for the next order; the unique
		// index only needs to hold codes of open orders.
		if err := orders.UpdateStatus(ctx, order.ID, map[string]interface{}{
			"status":      string(domain.OrderCompleted),
			"pickup_code": nil,
		}); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "complete order")
		}

		if s.remote != nil {
			full, err := orders.GetByID(ctx, storeID, order.ID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "reload order")
			}
			return s.remote.MirrorOrderUpdate(ctx, full)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, storeID, orderID)
}
