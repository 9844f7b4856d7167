// Package rampsdk is a client for the ramp API: quotes, user accounts and
// KYC, and orders. Every call is checked against a declarative endpoint
// schema before it is sent, and replies are reshaped into stable results
// regardless of how the upstream nests or renames its fields.
//
//	api, err := rampsdk.New(cfg)
//	quote, err := api.Public.GetQuote(ctx, rampsdk.QuoteRequest{...})
package rampsdk

import (
	"context"
	"errors"

	"github.com/fewlinesco/rampsdk/client"
	"github.com/fewlinesco/rampsdk/config"
)

var ErrInvalidAccessToken = errors.New("Invalid access token")

// transport is the part of *client.Client the services use.
type transport interface {
	Do(ctx context.Context, call client.Call) (interface{}, error)
	PartnerAPIKey() string
	SetAccessToken(token string)
	SetUserData(user map[string]interface{})
}

type API struct {
	Client *client.Client
	Public *PublicService
	User   *UserService
	Order  *OrderService
}

func New(cfg config.Config, opts ...client.Option) (*API, error) {
	c, err := client.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &API{
		Client: c,
		Public: &PublicService{client: c},
		User:   &UserService{client: c},
		Order:  &OrderService{client: c},
	}, nil
}

// VerifyAndSetAccessToken fetches the user behind token and, when it
// resolves, keeps token and the user for later calls.
func (a *API) VerifyAndSetAccessToken(ctx context.Context, token string) (*User, error) {
	user, err := a.User.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrInvalidAccessToken
	}
	return user, nil
}

func (a *API) IsAccessTokenValid(ctx context.Context, token string) bool {
	_, err := a.VerifyAndSetAccessToken(ctx, token)
	return err == nil
}
