package constant

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUsername contextKey = "username"
	ContextKeyUserRole contextKey = "user_role"
	ContextKeyTokenID  contextKey = "token_id"
)

const (
	RoleAdmin = "admin"

	ActorSystem = "system"
)

const (
	BookingTypeOnline  = "online"
	BookingTypeOffline = "offline"

	PaymentPending = "pending"
)

const (
	RequestParamID        = "id"
	RequestParamBookingID = "bookingId"
	RequestParamDate      = "date"
	RequestMaxMemory      = 10 << 20 // 10 MB
)

const (
	FormFieldDocument    = "document"
	FormFieldName        = "name"
	FormFieldEmail       = "email"
	FormFieldPhone       = "phone"
	FormFieldAddress     = "address"
	FormFieldRoomNumbers = "roomNumbers"
	FormFieldDate        = "date"
	FormFieldPayment     = "payment"
)

const (
	DateFormat = "2006-01-02"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelStoreScopeName      = "store"
	OtelExternalScopeName   = "external"

	OtelDocumentAttributeKey = "document"
	OtelS3ScopeName          = "s3"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderContentDisposition = "Content-Disposition"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON              = "application/json"
	ContentTypeHTML              = "text/html; charset=utf-8"
	ContentTypeMultipartFormData = "multipart/form-data"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	DocumentBookings  = "bookings"
	DocumentAdmin     = "admin"
	DocumentOccupancy = "room-occupancy"
)

const (
	Asterix = "*"
	Empty   = ""
)
