package llm

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	retryDelayRe  = regexp.MustCompile(`retry_delay.*?seconds: (\d+)`)
	statusTokenRe = regexp.MustCompile(`(\d{3})`)
)

// Classify maps a raw backend error to a typed *Error. An error that is
// already classified is returned as is. Classify never returns nil for a
// non-nil input.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	out := ClassifyMessage(err.Error())
	out.cause = err
	return out
}

// ClassifyMessage applies the matching rules to an error string. Rules are
// checked in order and the first hit wins:
//
//  1. "429" and "quota"       -> rate limited (retry hint when present)
//  2. "quota" and "exceeded"  -> quota exceeded
//  3. "400" or "500"          -> API error with the first 3-digit token as status
//  4. anything else           -> API error without status
//
// Rule 3 takes the first 3-digit run in the message, which can be an
// unrelated number that precedes the real status.
func ClassifyMessage(msg string) *Error {
	lower := strings.ToLower(msg)

	if strings.Contains(msg, "429") && strings.Contains(lower, "quota") {
		e := &Error{Kind: KindRateLimited, Message: msgRateLimited}
		if m := retryDelayRe.FindStringSubmatch(msg); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				e.RetryAfterSeconds = &n
			}
		}
		if strings.Contains(msg, "FreeTier") {
			e.FreeTier = true
			e.Message = msgRateLimitedFreeTier
		}
		return e
	}

	if strings.Contains(lower, "quota") && strings.Contains(lower, "exceeded") {
		return &Error{Kind: KindQuotaExceeded, Message: msgQuotaExceeded}
	}

	if strings.Contains(msg, "400") || strings.Contains(msg, "500") {
		e := &Error{Kind: KindAPIError, Message: msgAPIError}
		if m := statusTokenRe.FindString(msg); m != "" {
			n, _ := strconv.Atoi(m)
			e.StatusCode = &n
		}
		return e
	}

	return &Error{Kind: KindAPIError, Message: msgUnknown}
}
