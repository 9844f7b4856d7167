package rampsdk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fewlinesco/rampsdk/client"
	"github.com/fewlinesco/rampsdk/internal/stringset"
)

var (
	ErrFrontendAuthRequired = errors.New("Frontend Auth is required")
	ErrPurposeNotAccepted   = errors.New("Failed to submit purpose of usage form.")
)

var (
	personalDetailFields = []string{"firstName", "lastName", "mobileNumber", "dob"}
	addressFields        = []string{"addressLine1", "addressLine2", "state", "city", "postCode", "countryCode"}

	// AllowedPurposes are the accepted purpose-of-usage answers.
	AllowedPurposes = []string{
		"Buying/selling crypto for investments",
		"Buying NFTs",
		"Buying crypto to use a web3 protocol",
	}
)

// UserService wraps account, email login and KYC endpoints.
type UserService struct {
	client transport
}

func (s *UserService) SendEmailOTP(ctx context.Context, email, frontendAuth string) (*OTPStatus, error) {
	if frontendAuth == "" {
		return nil, ErrFrontendAuthRequired
	}
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "send_email_otp",
		Body: map[string]interface{}{
			"email":         email,
			"partnerApiKey": s.client.PartnerAPIKey(),
		},
		Headers: map[string]string{"frontend-auth": frontendAuth},
	})
	if err != nil {
		return nil, err
	}

	var status OTPStatus
	if err := decode(out, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// VerifyEmailOTP exchanges the emailed code for an access token, which is
// kept for later calls.
func (s *UserService) VerifyEmailOTP(ctx context.Context, email, code string) (*AccessToken, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "verify_email_otp",
		Body: map[string]interface{}{
			"email":                 email,
			"emailVerificationCode": code,
			"partnerApiKey":         s.client.PartnerAPIKey(),
		},
	})
	if err != nil {
		return nil, err
	}

	var token AccessToken
	if err := decode(out, &token); err != nil {
		return nil, err
	}
	if token.ID != "" {
		s.client.SetAccessToken(token.ID)
	}
	return &token, nil
}

// GetUser fetches the authenticated user. A non-empty accessToken is used
// for this call and kept when it resolves to a user.
func (s *UserService) GetUser(ctx context.Context, accessToken string) (*User, error) {
	call := client.Call{Endpoint: "get_user"}
	if accessToken != "" {
		call.Headers = map[string]string{"authorization": accessToken}
	}
	out, err := s.client.Do(ctx, call)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(out, &user); err != nil {
		return nil, err
	}
	if user.ID != "" {
		raw, _ := out.(map[string]interface{})
		s.client.SetUserData(raw)
		if accessToken != "" {
			s.client.SetAccessToken(accessToken)
		}
	}
	return &user, nil
}

// KYCForms lists the forms still required for quoteID. No forms means no
// further KYC is needed.
func (s *UserService) KYCForms(ctx context.Context, quoteID string) (*KYCForms, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "get_kyc_forms",
		Query: map[string]interface{}{
			"metadata[quoteId]":  quoteID,
			"onlyFormIds":        true,
			"metadata[formType]": "KYC",
		},
	})
	if err != nil {
		return nil, err
	}

	var forms KYCForms
	if err := decode(out, &forms); err != nil {
		return nil, err
	}
	return &forms, nil
}

func (s *UserService) KYCFormByID(ctx context.Context, formID, quoteID string) (*KYCForm, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "get_kyc_forms_by_id",
		Query:    formQuery(formID, quoteID),
	})
	if err != nil {
		return nil, err
	}

	var form KYCForm
	if err := decode(out, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// KYCIDProof returns the hosted identity verification link.
func (s *UserService) KYCIDProof(ctx context.Context, formID, quoteID string) (*IDProofForm, error) {
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "get_kyc_forms_idProof",
		Query:    formQuery(formID, quoteID),
	})
	if err != nil {
		return nil, err
	}

	var form IDProofForm
	if err := decode(out, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func formQuery(formID, quoteID string) map[string]interface{} {
	return map[string]interface{}{
		"formIds[]":          formID,
		"metadata[quoteId]":  quoteID,
		"onlyFormIds":        false,
		"metadata[formType]": "KYC",
	}
}

// PatchUser updates personal details and/or address. See ValidatePatchUser
// for the grouping rules.
func (s *UserService) PatchUser(ctx context.Context, fields map[string]interface{}) (*User, error) {
	if err := ValidatePatchUser(fields); err != nil {
		return nil, err
	}
	out, err := s.client.Do(ctx, client.Call{Endpoint: "patch_user", Body: fields})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(out, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SubmitPurposeOfUsage sends the purpose-of-usage answers. The API must
// acknowledge with "ok".
func (s *UserService) SubmitPurposeOfUsage(ctx context.Context, purposes []string) error {
	if err := ValidatePurposes(purposes); err != nil {
		return err
	}
	out, err := s.client.Do(ctx, client.Call{
		Endpoint: "submit_purpose_of_usage",
		Body:     map[string]interface{}{"purposeList": purposes},
	})
	if err != nil {
		return err
	}
	if out != "ok" {
		return ErrPurposeNotAccepted
	}
	return nil
}

// ValidatePatchUser requires personal details to be sent all together or
// not at all, and the same for address fields.
func ValidatePatchUser(fields map[string]interface{}) error {
	provided := stringset.New()
	for k := range fields {
		provided.Add(k)
	}

	if partial(provided, personalDetailFields) {
		return fmt.Errorf("If any of the following fields are provided: %s, all of them must be provided.",
			strings.Join(personalDetailFields, ", "))
	}
	if partial(provided, addressFields) {
		return fmt.Errorf("If any address fields are provided, all of them must be included: %s.",
			strings.Join(addressFields, ", "))
	}
	return nil
}

func partial(provided stringset.Set, group []string) bool {
	var n int
	for _, f := range group {
		if provided.Has(f) {
			n++
		}
	}
	return n > 0 && n < len(group)
}

// ValidatePurposes requires at least one purpose, all from AllowedPurposes.
func ValidatePurposes(purposes []string) error {
	if len(purposes) == 0 {
		return errors.New("Purpose list must be an array containing at least one valid purpose.")
	}

	allowed := stringset.New(AllowedPurposes...)
	var invalid []string
	for _, p := range purposes {
		if !allowed.Has(p) {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("Invalid purpose(s) found: %s. Allowed purposes: %s",
			strings.Join(invalid, ", "), strings.Join(AllowedPurposes, ", "))
	}
	return nil
}
