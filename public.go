package rampsdk

import (
	"context"

	"github.com/fewlinesco/rampsdk/client"
)

// PublicService wraps the endpoints that need no access token.
type PublicService struct {
	client transport
}

// GetQuote prices a buy or sell. The partner API key is added from the
// client configuration.
func (s *PublicService) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "quote",
		Query: map[string]interface{}{
			"fiatCurrency":     req.FiatCurrency,
			"cryptoCurrency":   req.CryptoCurrency,
			"paymentMethod":    req.PaymentMethod,
			"isBuyOrSell":      req.IsBuyOrSell,
			"fiatAmount":       req.FiatAmount,
			"network":          req.Network,
			"quoteCountryCode": req.QuoteCountryCode,
			"partnerApiKey":    s.client.PartnerAPIKey(),
		},
	})
	if err != nil {
		return nil, err
	}

	var quote Quote
	if err := decode(out, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *PublicService) CryptoCurrencies(ctx context.Context) ([]CryptoCurrency, error) {
	out, err := s.client.Do(ctx, client.Call{Endpoint: "crypto_currencies_list"})
	if err != nil {
		return nil, err
	}

	var list []CryptoCurrency
	if err := decode(out, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *PublicService) FiatCurrencies(ctx context.Context) ([]FiatCurrency, error) {
	out, err := s.client.Do(ctx, client.Call{Endpoint: "fiat_currencies_list"})
	if err != nil {
		return nil, err
	}

	var list []FiatCurrency
	if err := decode(out, &list); err != nil {
		return nil, err
	}
	return list, nil
}
