package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (W001-W009)
	// ============================================

	"W001": {
		Category: CategoryConfig,
		Message:  "Invalid route prefab",
		Detail:   "The route description failed validation. The node and its children were skipped; sibling routes were still built.",
	},
	"W002": {
		Category: CategoryConfig,
		Message:  "Wildcard route cannot have children",
		Detail:   "The \"*\" path matches any remaining path and must be a terminal node.",
	},
	"W003": {
		Category: CategoryConfig,
		Message:  "Route file not found",
	},
	"W004": {
		Category: CategoryConfig,
		Message:  "Invalid route file",
		Detail:   "The route file could not be parsed as YAML or describes a malformed route table.",
	},

	// ============================================
	// Location Errors (W010-W019)
	// ============================================

	"W010": {
		Category: CategoryLocation,
		Message:  "Invalid URL",
		Detail:   "The raw path contains more than one query separator or more than one hash separator.",
	},

	// ============================================
	// Resolution Errors (W020-W029)
	// ============================================

	"W020": {
		Category: CategoryResolution,
		Message:  "No matching route",
		Detail:   "Neither path-based nor name-based matching produced a route for the requested location.",
	},
	"W021": {
		Category: CategoryResolution,
		Message:  "Unknown route name",
		Detail:   "No route in the configured tree carries the requested name.",
	},
	"W022": {
		Category: CategoryResolution,
		Message:  "Invalid route parameters",
		Detail:   "Reverse URL generation failed: a required parameter is missing or does not satisfy its declared sub-pattern.",
	},

	// ============================================
	// Guard Errors (W030-W039)
	// ============================================

	"W030": {
		Category: CategoryGuard,
		Message:  "Navigation rejected by guard",
	},
	"W031": {
		Category: CategoryGuard,
		Message:  "Unexpected guard directive",
		Detail:   "A guard invoked next with a value that is not Continue, Abort, AbortWithError, or RedirectTo.",
	},

	// ============================================
	// Async Load Errors (W040-W049)
	// ============================================

	"W040": {
		Category: CategoryAsyncLoad,
		Message:  "Component load failed",
		Detail:   "An asynchronous component loader returned an error. The current route was left unchanged.",
	},
}
