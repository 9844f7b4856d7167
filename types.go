package rampsdk

import (
	"github.com/mitchellh/mapstructure"
)

// Results are decoded from the canonical maps produced by the contract
// layer. Fields mirror the output names declared in the endpoint tables.

type QuoteRequest struct {
	FiatCurrency     string
	CryptoCurrency   string
	PaymentMethod    string
	IsBuyOrSell      string
	FiatAmount       float64
	Network          string
	QuoteCountryCode string
}

type Quote struct {
	QuoteID         string        `mapstructure:"quoteId"`
	ConversionPrice float64       `mapstructure:"conversionPrice"`
	FiatCurrency    string        `mapstructure:"fiatCurrency"`
	CryptoCurrency  string        `mapstructure:"cryptoCurrency"`
	PaymentMethod   string        `mapstructure:"paymentMethod"`
	FiatAmount      float64       `mapstructure:"fiatAmount"`
	CryptoAmount    float64       `mapstructure:"cryptoAmount"`
	IsBuyOrSell     string        `mapstructure:"isBuyOrSell"`
	Network         string        `mapstructure:"network"`
	FeeDecimal      float64       `mapstructure:"feeDecimal"`
	TotalFee        float64       `mapstructure:"totalFee"`
	FeeBreakdown    []interface{} `mapstructure:"feeBreakdown"`
	Nonce           float64       `mapstructure:"nonce"`
}

type CryptoCurrency struct {
	ID        string `mapstructure:"_id"`
	CoinID    string `mapstructure:"coinId"`
	Symbol    string `mapstructure:"symbol"`
	Name      string `mapstructure:"name"`
	IsAllowed bool   `mapstructure:"isAllowed"`
	IsPopular bool   `mapstructure:"isPopular"`
	IsStable  bool   `mapstructure:"isStable"`
	Network   struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"network"`
}

type FiatCurrency struct {
	Symbol         string          `mapstructure:"symbol"`
	Name           string          `mapstructure:"name"`
	IsAllowed      bool            `mapstructure:"isAllowed"`
	IsPopular      bool            `mapstructure:"isPopular"`
	PaymentOptions []PaymentMethod `mapstructure:"paymentOptions"`
}

type PaymentMethod struct {
	ID             string  `mapstructure:"id"`
	Name           string  `mapstructure:"name"`
	ProcessingTime string  `mapstructure:"processingTime"`
	IsActive       bool    `mapstructure:"isActive"`
	MinAmount      float64 `mapstructure:"minAmount"`
	MaxAmount      float64 `mapstructure:"maxAmount"`
}

type OTPStatus struct {
	IsTncAccepted bool `mapstructure:"isTncAccepted"`
}

// AccessToken is the session returned by email verification. ID is the
// token itself.
type AccessToken struct {
	ID      string  `mapstructure:"id"`
	TTL     float64 `mapstructure:"ttl"`
	Created string  `mapstructure:"created"`
	UserID  string  `mapstructure:"userId"`
}

type User struct {
	ID           string                 `mapstructure:"id"`
	FirstName    string                 `mapstructure:"firstName"`
	LastName     string                 `mapstructure:"lastName"`
	Email        string                 `mapstructure:"email"`
	MobileNumber string                 `mapstructure:"mobileNumber"`
	Status       string                 `mapstructure:"status"`
	DOB          string                 `mapstructure:"dob"`
	KYC          map[string]interface{} `mapstructure:"kyc"`
	Address      *Address               `mapstructure:"address"`
	CreatedAt    string                 `mapstructure:"createdAt"`
}

type Address struct {
	AddressLine1 string `mapstructure:"addressLine1"`
	AddressLine2 string `mapstructure:"addressLine2"`
	State        string `mapstructure:"state"`
	City         string `mapstructure:"city"`
	PostCode     string `mapstructure:"postCode"`
	Country      string `mapstructure:"country"`
	CountryCode  string `mapstructure:"countryCode"`
}

type KYCForms struct {
	KYCType string       `mapstructure:"kycType"`
	Forms   []KYCFormRef `mapstructure:"forms"`
}

type KYCFormRef struct {
	ID           string `mapstructure:"id"`
	Active       bool   `mapstructure:"active"`
	HideProgress bool   `mapstructure:"hideProgress"`
	OnSubmit     string `mapstructure:"onSubmit"`
}

type KYCForm struct {
	FormID   string `mapstructure:"formId"`
	FormName string `mapstructure:"formName"`
	Endpoint struct {
		Path   string `mapstructure:"path"`
		Method string `mapstructure:"method"`
	} `mapstructure:"endpoint"`
	Fields []KYCFormField `mapstructure:"fields"`
}

type KYCFormField struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	IsRequired  bool   `mapstructure:"isRequired"`
	Regex       string `mapstructure:"regex"`
	Placeholder string `mapstructure:"placeholder"`
	Value       string `mapstructure:"value"`
}

type IDProofForm struct {
	FormID    string `mapstructure:"formId"`
	FormName  string `mapstructure:"formName"`
	KYCURL    string `mapstructure:"kycUrl"`
	ExpiresAt string `mapstructure:"expiresAt"`
}

// OrderLimits are keyed by period in days: "1", "30" and "365".
type OrderLimits struct {
	Limits    map[string]float64 `mapstructure:"limits"`
	Spent     map[string]float64 `mapstructure:"spent"`
	Remaining map[string]float64 `mapstructure:"remaining"`
	Exceeded  map[string]bool    `mapstructure:"exceeded"`
}

type OrderLimitRequest struct {
	KYCType      string
	IsBuyOrSell  string
	FiatCurrency string
}

type WalletReservation struct {
	ID string `mapstructure:"id"`
}

type Order struct {
	ID                    string          `mapstructure:"id"`
	UserID                string          `mapstructure:"userId"`
	Status                string          `mapstructure:"status"`
	IsBuyOrSell           string          `mapstructure:"isBuyOrSell"`
	FiatCurrency          string          `mapstructure:"fiatCurrency"`
	CryptoCurrency        string          `mapstructure:"cryptoCurrency"`
	PaymentOptionID       string          `mapstructure:"paymentOptionId"`
	Network               string          `mapstructure:"network"`
	WalletAddress         string          `mapstructure:"walletAddress"`
	AddressAdditionalData interface{}     `mapstructure:"addressAdditionalData"`
	QuoteID               string          `mapstructure:"quoteId"`
	FiatAmount            float64         `mapstructure:"fiatAmount"`
	FiatAmountInUSD       float64         `mapstructure:"fiatAmountInUsd"`
	AmountPaid            float64         `mapstructure:"amountPaid"`
	CryptoAmount          float64         `mapstructure:"cryptoAmount"`
	ConversionPrice       float64         `mapstructure:"conversionPrice"`
	TotalFeeInFiat        float64         `mapstructure:"totalFeeInFiat"`
	PaymentOptions        []PaymentOption `mapstructure:"paymentOptions"`
	TransactionHash       string          `mapstructure:"transactionHash"`
	CreatedAt             string          `mapstructure:"createdAt"`
	UpdatedAt             string          `mapstructure:"updatedAt"`
	CompletedAt           string          `mapstructure:"completedAt"`
	StatusHistories       []StatusChange  `mapstructure:"statusHistories"`
}

type PaymentOption struct {
	Currency string `mapstructure:"currency"`
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Fields   []struct {
		Name  string `mapstructure:"name"`
		Value string `mapstructure:"value"`
	} `mapstructure:"fields"`
}

type StatusChange struct {
	Status    string `mapstructure:"status"`
	CreatedAt string `mapstructure:"createdAt"`
}

// decode copies a canonical result into out, a pointer to one of the
// result types above.
func decode(result interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(result)
}
