package rampsdk

import (
	"context"

	"github.com/fewlinesco/rampsdk/client"
)

// OrderService wraps the order endpoints. A duplicate order is reported as
// a *contract.ConflictError carrying the existing order's id and status.
type OrderService struct {
	client transport
}

func (s *OrderService) OrderLimit(ctx context.Context, req OrderLimitRequest) (*OrderLimits, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "order_limit",
		Query: map[string]interface{}{
			"kycType":         req.KYCType,
			"isBuyOrSell":     req.IsBuyOrSell,
			"fiatCurrency":    req.FiatCurrency,
			"paymentCategory": "bank_transfer",
		},
	})
	if err != nil {
		return nil, err
	}

	var limits OrderLimits
	if err := decode(out, &limits); err != nil {
		return nil, err
	}
	return &limits, nil
}

// WalletReserve reserves walletAddress for quoteID ahead of order creation.
func (s *OrderService) WalletReserve(ctx context.Context, quoteID, walletAddress string) (*WalletReservation, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "wallet_reserve",
		Body: map[string]interface{}{
			"quoteId":       quoteID,
			"walletAddress": walletAddress,
		},
	})
	if err != nil {
		return nil, err
	}

	var res WalletReservation
	if err := decode(out, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateOrder places an order for a reserved quote.
func (s *OrderService) CreateOrder(ctx context.Context, quoteID string) (*Order, error) {
	return s.order(ctx, client.Call{
		Endpoint: "create_order",
		Body:     map[string]interface{}{"reservationId": quoteID},
	})
}

func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, paymentMethod string) (*Order, error) {
	return s.order(ctx, client.Call{
		Endpoint: "confirm_payment",
		Body: map[string]interface{}{
			"orderId":         orderID,
			"paymentOptionId": paymentMethod,
		},
	})
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID, reason string) (*Order, error) {
	return s.order(ctx, client.Call{
		Endpoint:   "cancel_order",
		PathParams: map[string]string{"orderId": orderID, "cancelReason": reason},
	})
}

func (s *OrderService) OrderByID(ctx context.Context, orderID string) (*Order, error) {
	return s.order(ctx, client.Call{
		Endpoint:   "get_order_by_id",
		PathParams: map[string]string{"orderId": orderID},
	})
}

func (s *OrderService) order(ctx context.Context, call client.Call) (*Order, error) {
	out, err := s.client.Do(ctx, call)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decode(out, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
