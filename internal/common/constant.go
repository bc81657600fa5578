package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Roles a user account can hold.
const (
	RoleEmployee = "USER"
	RoleAdmin    = "ADMIN"
)
