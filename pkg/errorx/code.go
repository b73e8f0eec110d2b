package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest         Code = 100001
	BadResponse        Code = 100002
	PermissionDenied   Code = 100003
	NotFound           Code = 100004
	Unauthenticated    Code = 100005
	AlreadyExists      Code = 100006
	Internal           Code = 100007
	Unavailable        Code = 100008
	NotImplemented     Code = 100009
	TooManyRequests    Code = 100010
	ExternalDependency Code = 100011

	// Entry codes
	InvalidWallet  Code = 200001
	DuplicateEntry Code = 200002
	EventInactive  Code = 200003
	InvalidEntries Code = 200004

	// Selection codes
	NoSpotsAvailable     Code = 300001
	TooManyWinners       Code = 300002
	NoEligibleEntries    Code = 300003
	IneligibleEntries    Code = 300004
	InvalidEntryStatus   Code = 300005
	InvalidSelectionMode Code = 300006
)

var kinds = map[Code]string{
	BadRequest:         "VALIDATION_ERROR",
	BadResponse:        "BAD_RESPONSE",
	PermissionDenied:   "PERMISSION_DENIED",
	NotFound:           "NOT_FOUND",
	Unauthenticated:    "UNAUTHENTICATED",
	AlreadyExists:      "ALREADY_EXISTS",
	Internal:           "INTERNAL_ERROR",
	Unavailable:        "UNAVAILABLE",
	NotImplemented:     "NOT_IMPLEMENTED",
	TooManyRequests:    "RATE_LIMIT_EXCEEDED",
	ExternalDependency: "EXTERNAL_DEPENDENCY_ERROR",

	InvalidWallet:  "INVALID_WALLET",
	DuplicateEntry: "DUPLICATE_ENTRY",
	EventInactive:  "EVENT_INACTIVE",
	InvalidEntries: "INVALID_ENTRIES",

	NoSpotsAvailable:     "NO_SPOTS_AVAILABLE",
	TooManyWinners:       "TOO_MANY_WINNERS",
	NoEligibleEntries:    "NO_ELIGIBLE_ENTRIES",
	IneligibleEntries:    "INELIGIBLE_ENTRIES",
	InvalidEntryStatus:   "INVALID_ENTRY_STATUS",
	InvalidSelectionMode: "INVALID_SELECTION_MODE",
}

// Category groups codes by the class of failure they represent.
type Category string

const (
	ValidationError         Category = "ValidationError"
	NotFoundError           Category = "NotFoundError"
	CapacityError           Category = "CapacityError"
	EligibilityError        Category = "EligibilityError"
	ExternalDependencyError Category = "ExternalDependencyError"
	InternalError           Category = "InternalError"
	AccessError             Category = "AccessError"
)

var categories = map[Code]Category{
	BadRequest:           ValidationError,
	AlreadyExists:        ValidationError,
	InvalidWallet:        ValidationError,
	DuplicateEntry:       ValidationError,
	EventInactive:        ValidationError,
	InvalidEntries:       ValidationError,
	InvalidSelectionMode: ValidationError,
	NotFound:             NotFoundError,
	NoSpotsAvailable:     CapacityError,
	TooManyWinners:       CapacityError,
	NoEligibleEntries:    EligibilityError,
	IneligibleEntries:    EligibilityError,
	InvalidEntryStatus:   EligibilityError,
	ExternalDependency:   ExternalDependencyError,
	Unavailable:          ExternalDependencyError,
	PermissionDenied:     AccessError,
	Unauthenticated:      AccessError,
	TooManyRequests:      AccessError,
}

func (c Code) Kind() string {
	if k, ok := kinds[c]; ok {
		return k
	}

	return "UNKNOWN"
}

func (c Code) Category() Category {
	if cat, ok := categories[c]; ok {
		return cat
	}

	return InternalError
}
