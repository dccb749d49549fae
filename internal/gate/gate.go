// Package gate decides, for every inbound request, whether to let it through, send the
// caller to sign-in, or send them to a role-specific page.
package gate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ops-gate/internal/auth"
	"github.com/spec-kit/ops-gate/internal/domain"
	"github.com/spec-kit/ops-gate/internal/observability"
)

// FailurePolicy controls what a session resolution error means for paths that are not
// enumerated as protected.
type FailurePolicy int

const (
	// FailOpen lets such requests through; the page guards itself.
	FailOpen FailurePolicy = iota
	// FailClosed sends such requests to sign-in.
	FailClosed
)

// ParseFailurePolicy maps "open" or "closed" to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open":
		return FailOpen, nil
	case "closed":
		return FailClosed, nil
	default:
		return FailOpen, fmt.Errorf("unknown failure policy %q", s)
	}
}

// RoleStore looks up role assignments in the staff and customer tables.
type RoleStore interface {
	LookupStaffRole(ctx context.Context, userID string) (*domain.RoleAssignment, error)
	LookupCustomerRole(ctx context.Context, email string) (*domain.RoleAssignment, error)
}

// Config is the static policy of a gate.
type Config struct {
	Routes              RouteTable
	AccessTokenCookie   string
	FailurePolicy       FailurePolicy
	RejectInactiveRoles bool
}

// Dependencies bundles the gate's collaborators. Roles, DecodeRole, Logger and Metrics
// are optional.
type Dependencies struct {
	Sessions   auth.SessionResolver
	Roles      RoleStore
	DecodeRole auth.RoleDecoder
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// Gate evaluates requests. It holds no per-request state and is safe for concurrent use.
type Gate struct {
	cfg      Config
	sessions auth.SessionResolver
	roles    RoleStore
	decode   auth.RoleDecoder
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// New validates cfg and builds a gate.
func New(cfg Config, deps Dependencies) (*Gate, error) {
	if deps.Sessions == nil {
		return nil, errors.New("gate requires a session resolver")
	}
	if err := cfg.Routes.compile(); err != nil {
		return nil, fmt.Errorf("compile routes: %w", err)
	}
	if deps.DecodeRole == nil {
		deps.DecodeRole = auth.DecodeEmbeddedRole
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Gate{
		cfg:      cfg,
		sessions: deps.Sessions,
		roles:    deps.Roles,
		decode:   deps.DecodeRole,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}, nil
}

// Routes exposes the compiled route table.
func (g *Gate) Routes() RouteTable {
	return g.cfg.Routes
}

// Decide evaluates one request from its path and cookies.
func (g *Gate) Decide(ctx context.Context, rawPath string, cookies auth.CookieSource) Decision {
	p := normalizePath(rawPath)
	d := g.decide(ctx, p, cookies)
	g.metrics.RecordDecision(d.Action.String(), string(d.Reason))
	if ce := g.logger.Check(zap.DebugLevel, "gate decision"); ce != nil {
		ce.Write(
			zap.String("path", p),
			zap.Stringer("action", d.Action),
			zap.String("reason", string(d.Reason)),
			zap.String("location", d.Location),
		)
	}
	return d
}

// DecideEscaped decodes a percent-encoded request path, then decides on it. A path that
// does not decode is sent to sign-in.
func (g *Gate) DecideEscaped(ctx context.Context, escapedPath string, cookies auth.CookieSource) Decision {
	p, err := url.PathUnescape(escapedPath)
	if err != nil {
		g.logger.Debug("undecodable request path", zap.String("path", escapedPath), zap.Error(err))
		d := redirect(g.cfg.Routes.SignInPath, ReasonMalformedPath)
		g.metrics.RecordDecision(d.Action.String(), string(d.Reason))
		return d
	}
	return g.Decide(ctx, p, cookies)
}

func (g *Gate) decide(ctx context.Context, p string, cookies auth.CookieSource) Decision {
	routes := g.cfg.Routes
	if routes.IsPublic(p) {
		return pass(ReasonPublic, nil)
	}

	session, err := g.sessions.ResolveSession(ctx, cookies)
	if err == nil && session == nil {
		err = auth.ErrNoSession
	}
	if err != nil {
		resolveFailed := !errors.Is(err, auth.ErrNoSession)
		if resolveFailed {
			g.logger.Debug("session resolution failed", zap.String("path", p), zap.Error(err))
		}
		if routes.IsProtected(p) || (resolveFailed && g.cfg.FailurePolicy == FailClosed) {
			return redirect(routes.SignInRedirect(p), ReasonSignInRequired)
		}
		return pass(ReasonAnonymous, nil)
	}

	role := g.embeddedRole(cookies, session)
	isRoot := routes.IsRoot(p)
	if role.IsPlaceholder() && isRoot {
		assignment, ok := g.lookupRole(ctx, session)
		if !ok {
			return redirect(routes.SignInPath, ReasonNoRoleRecord)
		}
		role = assignment.Role
	}

	if isRoot {
		if landing, ok := routes.LandingFor(role); ok {
			return redirect(landing, ReasonLanding)
		}
	}
	if role.IsCustomer() && routes.IsStaffOnly(p) {
		return redirect(routes.RootPath, ReasonCustomerBlocked)
	}
	return pass(ReasonAuthorized, &domain.Principal{Session: *session, Role: role})
}

// embeddedRole decodes the access-token cookie, then falls back to the session's own
// claims. No usable role anywhere yields the placeholder.
func (g *Gate) embeddedRole(cookies auth.CookieSource, session *domain.Session) domain.Role {
	if g.cfg.AccessTokenCookie != "" {
		role, err := g.decode(cookies.Cookie(g.cfg.AccessTokenCookie))
		if err == nil {
			return role
		}
		if errors.Is(err, auth.ErrClaimsMalformed) {
			g.logger.Debug("embedded role token malformed", zap.Error(err))
		}
	}
	if role, err := auth.RoleFromClaims(session.Claims); err == nil {
		return role
	}
	return domain.RoleAuthenticated
}

// lookupRole asks the staff table by subject, then the customer table by email.
func (g *Gate) lookupRole(ctx context.Context, session *domain.Session) (*domain.RoleAssignment, bool) {
	if g.roles == nil {
		return nil, false
	}
	if session.Subject != "" {
		assignment, err := g.roles.LookupStaffRole(ctx, session.Subject)
		if g.usable(assignment, err, domain.RoleSourceStaff) {
			return assignment, true
		}
	}
	if session.Email != "" {
		assignment, err := g.roles.LookupCustomerRole(ctx, session.Email)
		if g.usable(assignment, err, domain.RoleSourceCustomer) {
			return assignment, true
		}
	}
	return nil, false
}

func (g *Gate) usable(assignment *domain.RoleAssignment, err error, source domain.RoleSource) bool {
	if err != nil {
		if !errors.Is(err, domain.ErrRoleNotFound) {
			g.logger.Warn("role lookup failed", zap.String("source", string(source)), zap.Error(err))
		}
		return false
	}
	if assignment == nil || assignment.Role.IsPlaceholder() {
		return false
	}
	if g.cfg.RejectInactiveRoles && !assignment.Active() {
		return false
	}
	return true
}
