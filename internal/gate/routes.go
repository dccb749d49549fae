package gate

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ops-gate/internal/domain"
)

// RouteTable is the static classification of request paths. It is fixed at startup.
type RouteTable struct {
	SignInPath        string
	RootPath          string
	PublicPrefixes    []string
	ProtectedPaths    []string
	StaffOnlyPrefixes []string
	Landing           map[domain.Role]string

	protected map[string]struct{}
}

const (
	ceoDashboard   = "/admin/reports/dashboard/ceo"
	adminDashboard = "/admin/reports/dashboard/admin"
	devDashboard   = "/admin/reports/dashboard/dev"
	crewBulletin   = "/TGR/crew/bulletin"
)

// DefaultRoutes returns the built-in classification.
func DefaultRoutes() RouteTable {
	return RouteTable{
		SignInPath: "/auth",
		RootPath:   "/",
		PublicPrefixes: []string{
			"/_next/static",
			"/_next/image",
			"/favicon.ico",
			"/static/",
			"/auth",
			"/api/public",
			"/health",
		},
		ProtectedPaths: []string{
			"/",
			"/profile",
			ceoDashboard,
			adminDashboard,
			crewBulletin,
			"/TGR/dros/guide",
			"/sales/reports",
			"/admin/timesheets",
		},
		StaffOnlyPrefixes: []string{"/admin", "/TGR", "/sales"},
		Landing: map[domain.Role]string{
			domain.RoleSuperAdmin: ceoDashboard,
			domain.RoleCEO:        ceoDashboard,
			domain.RoleAdmin:      adminDashboard,
			domain.RoleDev:        devDashboard,
			domain.RoleUser:       crewBulletin,
			domain.RoleGunsmith:   crewBulletin,
			domain.RoleAuditor:    crewBulletin,
		},
	}
}

// routeFile is the YAML shape of a route table override. Empty fields keep defaults.
type routeFile struct {
	SignInPath        string            `yaml:"sign_in_path"`
	RootPath          string            `yaml:"root_path"`
	PublicPrefixes    []string          `yaml:"public_prefixes"`
	ProtectedPaths    []string          `yaml:"protected_paths"`
	StaffOnlyPrefixes []string          `yaml:"staff_only_prefixes"`
	Landing           map[string]string `yaml:"landing"`
}

// LoadRoutes reads a YAML override file on top of DefaultRoutes. An empty filename
// returns the defaults.
func LoadRoutes(filename string) (RouteTable, error) {
	table := DefaultRoutes()
	if filename == "" {
		return table, table.compile()
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return RouteTable{}, fmt.Errorf("read routes file: %w", err)
	}
	return ParseRoutes(content)
}

// ParseRoutes decodes YAML route overrides on top of DefaultRoutes.
func ParseRoutes(content []byte) (RouteTable, error) {
	var file routeFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return RouteTable{}, fmt.Errorf("decode routes file: %w", err)
	}

	table := DefaultRoutes()
	if file.SignInPath != "" {
		table.SignInPath = file.SignInPath
	}
	if file.RootPath != "" {
		table.RootPath = file.RootPath
	}
	if len(file.PublicPrefixes) > 0 {
		table.PublicPrefixes = file.PublicPrefixes
	}
	if len(file.ProtectedPaths) > 0 {
		table.ProtectedPaths = file.ProtectedPaths
	}
	if len(file.StaffOnlyPrefixes) > 0 {
		table.StaffOnlyPrefixes = file.StaffOnlyPrefixes
	}
	if len(file.Landing) > 0 {
		table.Landing = make(map[domain.Role]string, len(file.Landing))
		for role, landing := range file.Landing {
			table.Landing[domain.Role(strings.ToLower(role))] = landing
		}
	}
	return table, table.compile()
}

// WithProtectedPaths returns a copy whose protected list is replaced, when paths is non-empty.
func (t RouteTable) WithProtectedPaths(paths []string) (RouteTable, error) {
	if len(paths) == 0 {
		return t, t.compile()
	}
	t.ProtectedPaths = append([]string(nil), paths...)
	t.protected = nil
	return t, t.compile()
}

func (t *RouteTable) compile() error {
	for _, p := range []string{t.SignInPath, t.RootPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("route %q must start with /", p)
		}
	}
	for role, landing := range t.Landing {
		if !strings.HasPrefix(landing, "/") {
			return fmt.Errorf("landing path for role %q must start with /", role)
		}
	}

	t.protected = make(map[string]struct{}, len(t.ProtectedPaths))
	for _, p := range t.ProtectedPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("protected path %q must start with /", p)
		}
		t.protected[normalizePath(p)] = struct{}{}
	}
	return nil
}

// IsPublic reports whether p bypasses the gate entirely.
func (t RouteTable) IsPublic(p string) bool {
	return matchAny(p, t.PublicPrefixes)
}

// IsProtected reports whether p is an enumerated path that requires a session.
func (t RouteTable) IsProtected(p string) bool {
	if t.protected == nil {
		for _, candidate := range t.ProtectedPaths {
			if normalizePath(candidate) == p {
				return true
			}
		}
		return false
	}
	_, ok := t.protected[p]
	return ok
}

// IsStaffOnly reports whether p lives under a staff-only prefix.
func (t RouteTable) IsStaffOnly(p string) bool {
	return matchAny(p, t.StaffOnlyPrefixes)
}

// IsRoot reports whether p is the application root.
func (t RouteTable) IsRoot(p string) bool {
	return p == normalizePath(t.RootPath)
}

// LandingFor returns the landing path for role.
func (t RouteTable) LandingFor(role domain.Role) (string, bool) {
	landing, ok := t.Landing[role]
	return landing, ok && landing != ""
}

// SignInRedirect builds the sign-in location carrying the original path in next.
func (t RouteTable) SignInRedirect(p string) string {
	return t.SignInPath + "?" + url.Values{"next": []string{p}}.Encode()
}

// matchAny matches p against prefixes on path-segment boundaries. A prefix ending in
// "/" or naming a file matches as a plain string prefix.
func matchAny(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasSuffix(prefix, "/") || strings.Contains(path.Base(prefix), ".") {
			if strings.HasPrefix(p, prefix) {
				return true
			}
			continue
		}
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// normalizePath gives p a leading slash and drops trailing slashes except for the root.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
