package common

// AdminTokenHeaderName is the gRPC metadata key used to carry the
// admin token on outbound admin requests.
const AdminTokenHeaderName = "admin_token"

// AdminTokenHTTPHeader carries the admin token on REST admin routes.
const AdminTokenHTTPHeader = "X-Admin-Token"
