package llm

import "fmt"

// Kind tags a classified generation failure.
type Kind int

const (
	KindAPIError Kind = iota
	KindRateLimited
	KindQuotaExceeded
	KindConfiguration
	KindEmptyResponse
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limit_exceeded"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindConfiguration:
		return "configuration_error"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "api_error"
	}
}

// Error is the only error type Gateway.Generate returns. Message is safe to
// show to end users; the upstream error is kept for logs via Unwrap.
type Error struct {
	Kind    Kind
	Message string

	// RetryAfterSeconds is set only for KindRateLimited when the upstream
	// message carried a parseable delay.
	RetryAfterSeconds *int
	// StatusCode is set only for KindAPIError when a status token was found.
	StatusCode *int
	// FreeTier marks rate limits reported against a free-tier plan.
	FreeTier bool

	cause error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error of the same kind, so the Err* sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Detail renders kind and optional fields for logs.
func (e *Error) Detail() string {
	s := e.Kind.String()
	if e.RetryAfterSeconds != nil {
		s += fmt.Sprintf(" retry_after=%ds", *e.RetryAfterSeconds)
	}
	if e.StatusCode != nil {
		s += fmt.Sprintf(" status=%d", *e.StatusCode)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

var (
	ErrRateLimited   = &Error{Kind: KindRateLimited}
	ErrQuotaExceeded = &Error{Kind: KindQuotaExceeded}
	ErrAPI           = &Error{Kind: KindAPIError}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrEmptyResponse = &Error{Kind: KindEmptyResponse}
)

const (
	msgRateLimitedFreeTier = "APIの無料枠のレート制限に達しました。しばらく待ってから再試行してください。"
	msgRateLimited         = "APIのレート制限に達しました。しばらく待ってから再試行してください。"
	msgQuotaExceeded       = "APIの利用制限に達しました。プランの確認をお願いします。"
	msgAPIError            = "API接続でエラーが発生しました。しばらく時間をおいて再試行してください。"
	msgUnknown             = "予期しないエラーが発生しました。"
	msgEmptyResponse       = "AIから空の応答が返されました。"
	msgMissingAPIKey       = "GEMINI_API_KEY environment variable is required"
)

func newConfigurationError(msg string, cause error) *Error {
	return &Error{Kind: KindConfiguration, Message: msg, cause: cause}
}
