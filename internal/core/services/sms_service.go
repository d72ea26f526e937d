package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// SMSGateway sends one text message.
type SMSGateway interface {
	Send(ctx context.Context, phone, content string) error
}

// HTTPSMSGateway posts messages to an SMS provider endpoint.
type HTTPSMSGateway struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewHTTPSMSGateway creates a gateway against a provider endpoint
func NewHTTPSMSGateway(endpoint, apiKey string) *HTTPSMSGateway {
	return &HTTPSMSGateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one message to the provider
func (g *HTTPSMSGateway) Send(ctx context.Context, phone, content string) error {
	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"content": content,
	})
	if err != nil {
		return domain.WrapErr(domain.KindParseError, err, "encode sms")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.WrapErr(domain.KindNetworkError, err, "build sms request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return domain.WrapErr(domain.KindNetworkError, err, "sms provider unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.E(domain.KindNetworkError, "sms provider returned status %d", resp.StatusCode)
	}
	return nil
}

// SMSService sends customer notices and records every attempt. A failed
// gateway call still leaves a notice row; notices never fail the flow
// that triggered them.
type SMSService struct {
	gateway SMSGateway
	notices *repositories.NoticeRepository
}

// NewSMSService creates a new SMS service. gateway may be nil, in which
// case every send is recorded as failed.
func NewSMSService(gateway SMSGateway, notices *repositories.NoticeRepository) *SMSService {
	return &SMSService{gateway: gateway, notices: notices}
}

// SendPickupNotice tells the customer the order is ready, including the
// pickup code.
func (s *SMSService) SendPickupNotice(ctx context.Context, storeID uint, order *models.Order) {
	if order.Customer == nil || order.Customer.Phone == "" {
		log.Warn().Uint("order_id", order.ID).Msg("pickup notice skipped: customer has no phone")
		return
	}
	code := ""
	if order.PickupCode != nil {
		code = *order.PickupCode
	}
	content := fmt.Sprintf("Your laundry order %s is ready for pickup. Pickup code: %s", order.OrderNo, code)
	s.send(ctx, storeID, &order.ID, order.Customer.Phone, content)
}

func (s *SMSService) send(ctx context.Context, storeID uint, orderID *uint, phone, content string) {
	result := domain.NoticeOK
	var sendErr error
	if s.gateway == nil {
		sendErr = domain.E(domain.KindInternalServer, "no sms gateway configured")
	} else {
		sendErr = s.gateway.Send(ctx, phone, content)
	}
	if sendErr != nil {
		result = domain.NoticeFail
		log.Warn().Err(sendErr).Str("phone", phone).Msg("sms send failed")
	}

	rec := &models.NoticeRecord{
		StoreID: storeID,
		OrderID: orderID,
		Phone:   phone,
		Content: content,
		Channel: "sms",
		Result:  result,
	}
	if err := s.notices.Create(ctx, rec); err != nil {
		log.Error().Err(err).Msg("notice record write failed")
	}
}

// History returns the notice records of an order, newest first.
func (s *SMSService) History(ctx context.Context, storeID, orderID uint) ([]models.NoticeRecord, error) {
	records, err := s.notices.ListByOrder(ctx, storeID, orderID)
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "list notices")
	}
	return records, nil
}
