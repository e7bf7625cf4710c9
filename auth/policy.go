package auth

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

type Action string

const (
	ActionDeletePost        Action = "post.delete"
	ActionCreateJob         Action = "job.create"
	ActionListApplications  Action = "application.list"
	ActionUpdateApplication Action = "application.update"
	ActionReadAnalytics     Action = "admin.analytics"
)

// Subject is the authenticated caller.
type Subject struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

// Authorizer evaluates ownership and role rules written in Rego.
type Authorizer struct {
	query rego.PreparedEvalQuery
}

func NewAuthorizer(ctx context.Context, policy string) (*Authorizer, error) {
	query, err := rego.New(
		rego.Query("data.social.authz.allow"),
		rego.Module("authz.rego", policy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Authorizer{query: query}, nil
}

func NewDefaultAuthorizer(ctx context.Context) (*Authorizer, error) {
	return NewAuthorizer(ctx, DefaultPolicy)
}

// Allow reports whether subject may perform action on a resource owned by ownerID.
// An undefined decision is a deny.
func (a *Authorizer) Allow(ctx context.Context, subject Subject, action Action, ownerID string) (bool, error) {
	input := map[string]any{
		"subject":  subject,
		"action":   string(action),
		"resource": map[string]any{"owner": ownerID},
	}
	results, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}

const DefaultPolicy = `
package social.authz

default allow = false

owner_actions = {"post.delete", "job.create", "application.list", "application.update"}

is_admin {
	input.subject.roles[_] == "admin"
}

allow {
	input.action == "admin.analytics"
	is_admin
}

allow {
	owner_actions[input.action]
	input.subject.id != ""
	input.subject.id == input.resource.owner
}

allow {
	owner_actions[input.action]
	is_admin
}
`
