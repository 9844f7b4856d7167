// Package flow drives the end-to-end buy sequence: quote, KYC, limit
// checks, order placement and completion polling. All state lives in a
// Session owned by the caller.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fewlinesco/rampsdk"
	"github.com/fewlinesco/rampsdk/internal/logging"
)

const (
	FormPurposeOfUsage = "purposeOfUsage"
	FormIDProof        = "idProof"

	StatusCompleted   = "COMPLETED"
	KYCStatusApproved = "APPROVED"
)

var ErrPollExhausted = errors.New("flow: poll attempts exhausted")

// Ramp is the subset of the SDK the flow needs.
type Ramp interface {
	GetQuote(ctx context.Context, req rampsdk.QuoteRequest) (*rampsdk.Quote, error)
	GetUser(ctx context.Context, accessToken string) (*rampsdk.User, error)
	KYCForms(ctx context.Context, quoteID string) (*rampsdk.KYCForms, error)
	KYCFormByID(ctx context.Context, formID, quoteID string) (*rampsdk.KYCForm, error)
	KYCIDProof(ctx context.Context, formID, quoteID string) (*rampsdk.IDProofForm, error)
	PatchUser(ctx context.Context, fields map[string]interface{}) (*rampsdk.User, error)
	SubmitPurposeOfUsage(ctx context.Context, purposes []string) error
	OrderLimit(ctx context.Context, req rampsdk.OrderLimitRequest) (*rampsdk.OrderLimits, error)
	WalletReserve(ctx context.Context, quoteID, walletAddress string) (*rampsdk.WalletReservation, error)
	CreateOrder(ctx context.Context, quoteID string) (*rampsdk.Order, error)
	ConfirmPayment(ctx context.Context, orderID, paymentMethod string) (*rampsdk.Order, error)
	OrderByID(ctx context.Context, orderID string) (*rampsdk.Order, error)
}

type apiRamp struct {
	*rampsdk.PublicService
	*rampsdk.UserService
	*rampsdk.OrderService
}

// FromAPI adapts an SDK instance to Ramp.
func FromAPI(api *rampsdk.API) Ramp {
	return apiRamp{api.Public, api.User, api.Order}
}

// Session is the input and accumulated state of one run.
type Session struct {
	Request       rampsdk.QuoteRequest
	WalletAddress string
	// FormData holds the values submitted for each KYC form, keyed by form id.
	FormData map[string]map[string]interface{}
	Purposes []string

	Quote   *rampsdk.Quote
	KYCType string
	Forms   []string
	KYCURL  string
	Order   *rampsdk.Order
}

func (s *Session) QuoteID() string {
	if s.Quote == nil {
		return ""
	}
	return s.Quote.QuoteID
}

func (s *Session) OrderID() string {
	if s.Order == nil {
		return ""
	}
	return s.Order.ID
}

type Runner struct {
	ramp         Ramp
	logger       *zap.Logger
	pollInterval time.Duration
	maxPolls     int
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithPolling sets the wait between status checks and the number of checks.
func WithPolling(interval time.Duration, attempts int) Option {
	return func(r *Runner) {
		r.pollInterval = interval
		r.maxPolls = attempts
	}
}

func NewRunner(ramp Ramp, opts ...Option) *Runner {
	r := &Runner{
		ramp:         ramp,
		pollInterval: 10 * time.Second,
		maxPolls:     20,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
	return r
}

// Run executes the whole sequence. KYC is submitted and awaited only when
// the API still asks for forms.
func (r *Runner) Run(ctx context.Context, s *Session) error {
	if err := r.Quote(ctx, s); err != nil {
		return err
	}

	required, err := r.CheckKYC(ctx, s)
	if err != nil {
		return err
	}
	if required {
		if err := r.SubmitKYC(ctx, s); err != nil {
			return err
		}
		if err := r.WaitForKYCApproval(ctx); err != nil {
			return err
		}
	}

	if err := r.CheckOrderLimits(ctx, s); err != nil {
		return err
	}
	if err := r.PlaceOrder(ctx, s); err != nil {
		return err
	}
	_, err = r.WaitForCompletion(ctx, s)
	return err
}

func (r *Runner) Quote(ctx context.Context, s *Session) error {
	quote, err := r.ramp.GetQuote(ctx, s.Request)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	s.Quote = quote
	r.logger.Info("quote fetched", zap.String("quote_id", quote.QuoteID), zap.Float64("crypto_amount", quote.CryptoAmount))
	return nil
}

// CheckKYC records the outstanding KYC forms and reports whether any remain.
func (r *Runner) CheckKYC(ctx context.Context, s *Session) (bool, error) {
	forms, err := r.ramp.KYCForms(ctx, s.QuoteID())
	if err != nil {
		return false, fmt.Errorf("kyc forms: %w", err)
	}

	s.KYCType = forms.KYCType
	s.Forms = make([]string, 0, len(forms.Forms))
	for _, f := range forms.Forms {
		s.Forms = append(s.Forms, f.ID)
	}
	r.logger.Info("kyc forms fetched", zap.String("kyc_type", s.KYCType), zap.Strings("forms", s.Forms))
	return len(s.Forms) > 0, nil
}

// WaitForKYCApproval polls the user until its level 1 KYC is approved.
func (r *Runner) WaitForKYCApproval(ctx context.Context) error {
	return r.poll(ctx, func(ctx context.Context, attempt int) (bool, error) {
		user, err := r.ramp.GetUser(ctx, "")
		if err != nil {
			return false, err
		}
		status := kycStatus(user)
		r.logger.Info("kyc status", zap.String("status", status), zap.Int("attempt", attempt))
		return status == KYCStatusApproved, nil
	})
}

func kycStatus(user *rampsdk.User) string {
	l1, _ := user.KYC["l1"].(map[string]interface{})
	status, _ := l1["status"].(string)
	return status
}

// PlaceOrder reserves the wallet, creates the order and confirms payment
// with the quoted payment method.
func (r *Runner) PlaceOrder(ctx context.Context, s *Session) error {
	if _, err := r.ramp.WalletReserve(ctx, s.QuoteID(), s.WalletAddress); err != nil {
		return fmt.Errorf("wallet reserve: %w", err)
	}

	order, err := r.ramp.CreateOrder(ctx, s.QuoteID())
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	s.Order = order
	r.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("status", order.Status),
		zap.Float64("fiat_amount", order.FiatAmount),
		zap.String("fiat_currency", order.FiatCurrency),
	)
	if len(order.PaymentOptions) == 0 {
		r.logger.Warn("no bank details in order", zap.String("order_id", order.ID))
	}

	confirmed, err := r.ramp.ConfirmPayment(ctx, order.ID, s.Request.PaymentMethod)
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	s.Order = confirmed
	return nil
}

// WaitForCompletion polls the order until it is COMPLETED.
func (r *Runner) WaitForCompletion(ctx context.Context, s *Session) (*rampsdk.Order, error) {
	orderID := s.OrderID()
	err := r.poll(ctx, func(ctx context.Context, attempt int) (bool, error) {
		order, err := r.ramp.OrderByID(ctx, orderID)
		if err != nil {
			return false, err
		}
		s.Order = order
		r.logger.Info("order status", zap.String("order_id", orderID), zap.String("status", order.Status),
			zap.Int("attempt", attempt), zap.Int("max_attempts", r.maxPolls))
		return order.Status == StatusCompleted, nil
	})
	if err != nil {
		return nil, err
	}
	return s.Order, nil
}

// poll waits one interval before each check.
func (r *Runner) poll(ctx context.Context, check func(ctx context.Context, attempt int) (bool, error)) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= r.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		done, err := check(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return ErrPollExhausted
}
