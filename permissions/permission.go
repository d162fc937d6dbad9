package permissions

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"niseko/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrDuplicateRule = errors.New("duplicate rule")
	ErrNoRoles       = errors.New("protected rule lists no roles")
)

var knownRoles = []string{constant.RoleAdmin, constant.RoleStaff, constant.RoleGuest}

// Rule grants access to one route pattern as chi reports it, e.g. "/v1/guests/{guestId}".
type Rule struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Public bool     `json:"public"`
	Roles  []string `json:"roles"`
}

// Allows reports whether a caller holding role may use the route.
func (r Rule) Allows(role string) bool {
	return r.Public || slices.Contains(r.Roles, role)
}

type Table struct {
	Disabled bool   `json:"disabled"`
	Rules    []Rule `json:"rules"`

	index map[string]Rule
}

// trailing slashes are dropped since chi reports "/v1/tasks" and "/v1/tasks/" for the same group root
func ruleKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimSuffix(path, "/")
}

// Parse decodes and checks a rule table.
func Parse(raw []byte) (*Table, error) {
	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	table.index = make(map[string]Rule, len(table.Rules))

	for _, rule := range table.Rules {
		key := ruleKey(rule.Method, rule.Path)

		if _, ok := table.index[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, key)
		}

		if !rule.Public && len(rule.Roles) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoRoles, key)
		}

		for _, role := range rule.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("%w %q: %s", ErrUnknownRole, role, key)
			}
		}

		table.index[key] = rule
	}

	return &table, nil
}

// Find returns the rule for a route pattern. Routes without a rule still need a token.
func (t *Table) Find(method, path string) (Rule, bool) {
	rule, ok := t.index[ruleKey(method, path)]

	return rule, ok
}

// Get loads the embedded table, or nil when it is broken so every protected route is refused.
func Get() *Table {
	table, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("failed to load embedded permissions")

		return nil
	}

	log.Info().Int("rules", len(table.Rules)).Msg("loaded embedded permissions")

	return table
}
