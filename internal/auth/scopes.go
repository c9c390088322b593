package auth

const (
	ScopeOpenID          = "openid"
	ScopeProfile         = "profile"
	ScopeEmail           = "email"
	ScopeWorkflowRead    = "workflow:read"
	ScopeWorkflowWrite   = "workflow:write"
	ScopeWorkflowExecute = "workflow:execute"
)

// AllScopes defines the full set of scopes requested by the designer UI
var AllScopes = []string{
	ScopeOpenID,
	ScopeProfile,
	ScopeEmail,
	ScopeWorkflowRead,
	ScopeWorkflowWrite,
	ScopeWorkflowExecute,
}
