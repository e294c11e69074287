// Package authz declares which caller capability each action on a resource
// requires. Policies are checked before any request body is decoded.
package authz

import (
	"errors"

	"github.com/phrazzld/shelf-api/internal/domain"
)

// Capability is a property a caller must have to perform an action.
type Capability int

const (
	Anyone Capability = iota
	AuthenticatedUser
	AdminUser
)

func (c Capability) String() string {
	switch c {
	case Anyone:
		return "anyone"
	case AuthenticatedUser:
		return "authenticated_user"
	case AdminUser:
		return "admin_user"
	default:
		return "unknown"
	}
}

// Action names an operation on a resource.
type Action string

const (
	List          Action = "list"
	Retrieve      Action = "retrieve"
	Create        Action = "create"
	Update        Action = "update"
	PartialUpdate Action = "partial_update"
	Delete        Action = "delete"
	Register      Action = "register"
	Login         Action = "login"
	Logout        Action = "logout"
)

var (
	// ErrNotAuthenticated is returned when an anonymous caller is denied.
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")

	// ErrPermissionDenied is returned when an authenticated caller is denied.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// Rule grants Actions to callers holding Capability.
type Rule struct {
	Capability Capability
	Actions    []Action
}

// Policy is an ordered list of rules. The first rule naming an action
// decides it; an action no rule names is denied.
type Policy struct {
	Name  string
	Rules []Rule
}

// Check returns nil when caller may perform action. caller is nil for an
// anonymous request.
func (p Policy) Check(action Action, caller *domain.User) error {
	for _, rule := range p.Rules {
		for _, a := range rule.Actions {
			if a != action {
				continue
			}
			if satisfies(caller, rule.Capability) {
				return nil
			}
			return deny(caller)
		}
	}
	return deny(caller)
}

func satisfies(caller *domain.User, c Capability) bool {
	switch c {
	case Anyone:
		return true
	case AuthenticatedUser:
		return caller != nil
	case AdminUser:
		return caller != nil && caller.IsStaff
	default:
		return false
	}
}

func deny(caller *domain.User) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	return ErrPermissionDenied
}
