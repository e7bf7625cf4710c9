package services

import (
	"context"
	"fmt"

	"social-club/auth"
	"social-club/errors"
)

// Authorizer decides ownership and role rules. *auth.Authorizer implements it.
type Authorizer interface {
	Allow(ctx context.Context, subject auth.Subject, action auth.Action, ownerID string) (bool, error)
}

func authorize(ctx context.Context, authorizer Authorizer, subject auth.Subject, action auth.Action, ownerID string) error {
	allowed, err := authorizer.Allow(ctx, subject, action, ownerID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s", errors.ErrForbidden, action)
	}
	return nil
}
