package authz

// Caller is the identity resolved for a request by the authentication layer.
// It is passed explicitly to everything that needs it; there is no ambient
// security context.
type Caller struct {
	ID    string
	Email string
	Role  string
}

// Rule describes an authorization requirement for an operation.
type Rule struct {
	kind  ruleKind
	roles []string
}

type ruleKind int

const (
	ruleAuthenticated ruleKind = iota
	ruleRole
	ruleAnyRole
)

// RequireAuthenticated permits any caller with a resolved identity.
func RequireAuthenticated() Rule {
	return Rule{kind: ruleAuthenticated}
}

// RequireRole permits callers holding exactly the given role.
func RequireRole(role string) Rule {
	return Rule{kind: ruleRole, roles: []string{role}}
}

// RequireAnyRole permits callers holding at least one of the given roles.
func RequireAnyRole(roles ...string) Rule {
	return Rule{kind: ruleAnyRole, roles: roles}
}

// Permit reports whether the caller satisfies the rule. It has no side
// effects; denial handling belongs to the transport layer.
func Permit(caller *Caller, rule Rule) bool {
	if caller == nil {
		return false
	}

	switch rule.kind {
	case ruleAuthenticated:
		return true
	case ruleRole:
		return caller.Role == rule.roles[0]
	case ruleAnyRole:
		for _, role := range rule.roles {
			if caller.Role == role {
				return true
			}
		}
	}

	return false
}
