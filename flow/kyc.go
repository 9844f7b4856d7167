package flow

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SubmitKYC fills every outstanding data form from s.FormData, then answers
// the purpose-of-usage form and fetches the ID proof link when asked for.
func (r *Runner) SubmitKYC(ctx context.Context, s *Session) error {
	var purpose, idProof bool
	for _, formID := range s.Forms {
		switch formID {
		case FormPurposeOfUsage:
			purpose = true
			continue
		case FormIDProof:
			idProof = true
			continue
		}
		if err := r.submitForm(ctx, s, formID); err != nil {
			return err
		}
	}

	if purpose {
		if err := r.ramp.SubmitPurposeOfUsage(ctx, s.Purposes); err != nil {
			return fmt.Errorf("purpose of usage: %w", err)
		}
		r.logger.Info("purpose of usage submitted")
	}

	if idProof {
		form, err := r.ramp.KYCIDProof(ctx, FormIDProof, s.QuoteID())
		if err != nil {
			return fmt.Errorf("id proof: %w", err)
		}
		if form.KYCURL != "" && form.FormID == FormIDProof {
			s.KYCURL = form.KYCURL
			r.logger.Info("id proof link", zap.String("url", form.KYCURL), zap.String("expires_at", form.ExpiresAt))
		}
	}
	return nil
}

func (r *Runner) submitForm(ctx context.Context, s *Session, formID string) error {
	form, err := r.ramp.KYCFormByID(ctx, formID, s.QuoteID())
	if err != nil {
		return fmt.Errorf("kyc form %s: %w", formID, err)
	}

	data, ok := s.FormData[formID]
	if !ok {
		return fmt.Errorf("missing KYC data for form %s", formID)
	}
	for _, field := range form.Fields {
		if _, ok := data[field.ID]; !ok {
			return fmt.Errorf("missing field %s for form %s", field.ID, formID)
		}
	}

	user, err := r.ramp.PatchUser(ctx, data)
	if err != nil {
		return fmt.Errorf("submit kyc form %s: %w", formID, err)
	}
	r.logger.Info("kyc form submitted", zap.String("form", formID), zap.String("email", user.Email))
	return nil
}
