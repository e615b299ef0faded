package apierror

// Error type URIs following the urn:rehab:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:rehab:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:rehab:error:not_found"

	// TypeNoActivePlan indicates the user has no active rehab plan (409)
	TypeNoActivePlan = "urn:rehab:error:no_active_plan"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:rehab:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:rehab:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:rehab:error:internal"

	// TypeInvalidDate indicates an unparseable date in the request (400)
	TypeInvalidDate = "urn:rehab:error:invalid_date"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:rehab:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleNotFound     = "Resource Not Found"
	TitleNoActivePlan = "No Active Plan"
	TitleRateLimit    = "Rate Limit Exceeded"
	TitleUnauthorized = "Authentication Required"
	TitleInternal     = "Internal Server Error"
	TitleInvalidDate  = "Invalid Date Format"
	TitleBadRequest   = "Bad Request"
)
