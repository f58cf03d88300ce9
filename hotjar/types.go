package hotjar

// Body is a decoded JSON document returned verbatim by the simple accessors:
// map[string]any, []any or a scalar, depending on what the endpoint sends.
type Body = any

// FeedbackRecord is a single feedback response. Fields are passed through
// untouched from the API.
type FeedbackRecord map[string]any

// Credentials are consumed by the login handshake and not retained.
type Credentials struct {
	Email    string
	Password string
}

// Session is the authenticated state established by login. It is never
// mutated after NewClient returns.
type Session struct {
	UserID    int64
	AccessKey string
	// Raw is the full login response body
	Raw map[string]any
}

// loginRequest is the login payload
type loginRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// responsesPage is one page of the feedback responses endpoint
type responsesPage struct {
	Count *int             `json:"count"`
	Data  []FeedbackRecord `json:"data"`
}

// FeedbackFields lists the fields requested for every feedback response
var FeedbackFields = []string{
	"browser",
	"content",
	"created_datetime_string",
	"created_epoch_time",
	"country_code",
	"country_name",
	"device",
	"id",
	"image_url",
	"index",
	"os",
	"response_url",
	"short_visitor_uuid",
	"thumbnail_url",
	"window_size",
}
