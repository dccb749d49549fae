package gate

import "github.com/spec-kit/ops-gate/internal/domain"

// Action is what the gate does with a request.
type Action int

const (
	ActionPass Action = iota
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Reason names the branch that produced a decision.
type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonAnonymous       Reason = "anonymous"
	ReasonSignInRequired  Reason = "sign_in_required"
	ReasonNoRoleRecord    Reason = "no_role_record"
	ReasonLanding         Reason = "role_landing"
	ReasonCustomerBlocked Reason = "customer_staff_area"
	ReasonAuthorized      Reason = "authorized"
	ReasonMalformedPath   Reason = "malformed_path"
)

// Decision is the outcome of evaluating one request.
type Decision struct {
	Action    Action
	Location  string
	Reason    Reason
	Principal *domain.Principal
}

func pass(reason Reason, principal *domain.Principal) Decision {
	return Decision{Action: ActionPass, Reason: reason, Principal: principal}
}

func redirect(location string, reason Reason) Decision {
	return Decision{Action: ActionRedirect, Location: location, Reason: reason}
}
