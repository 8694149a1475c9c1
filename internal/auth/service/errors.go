package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")

	// ErrTokenExpired means the presented token was valid once and its
	// deadline has passed; ErrTokenNotFound means the ledger has no such
	// token at all. The gate maps both to session_expired but the
	// distinction matters for the ledger's own semantics and tests.
	ErrTokenExpired  = errors.New("token_expired")
	ErrTokenNotFound = errors.New("token_not_found")

	// ErrAdminRoleProtected guards the reserved administrator role from
	// rename, delete and deactivation.
	ErrAdminRoleProtected = errors.New("admin_role_protected")

	// ErrSelfAction blocks administrators from deactivating or deleting
	// their own account.
	ErrSelfAction = errors.New("self_action_forbidden")

	// ErrRoleAssigned blocks deleting a role while user grants still
	// reference it.
	ErrRoleAssigned = errors.New("role_still_assigned")

	// ErrNoModuleAccess is returned by token validation when the user holds
	// no role in the requesting module.
	ErrNoModuleAccess = errors.New("no_module_access")
)
