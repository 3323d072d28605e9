package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// credential (user API key or externally minted JWT) on inbound requests.
const AuthorizationHeaderName = "Authorization"

// DefaultZoneName is the zone used by clients when none is configured.
const DefaultZoneName = "default"
