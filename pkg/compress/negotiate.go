package compress

import (
	"net/http"
	"strings"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/mediatype"
)

// Skip reasons, used as metric label values.
const (
	skipAlreadyEncoded = "already_encoded"
	skipExcludedType   = "excluded_type"
	skipNotAccepted    = "not_accepted"
	skipNoBody         = "no_body"
)

// Negotiate returns the encoding the pipeline would apply to a response
// with the given headers, serving the given request. It is pure: no
// headers are modified and no metrics are recorded. The second return is
// false when the response should be passed through unchanged.
func (p *Pipeline) Negotiate(req *http.Request, respHeader http.Header) (encoding.Encoding, bool) {
	enc, reason := p.negotiate(req, respHeader)
	return enc, reason == ""
}

// negotiate applies the decision checks in order and reports the first
// reason to skip, or "" with the chosen encoding.
func (p *Pipeline) negotiate(req *http.Request, respHeader http.Header) (encoding.Encoding, string) {
	// An existing Content-Encoding disqualifies the response outright,
	// whatever its value. Re-encoding an already encoded payload would
	// corrupt it.
	if _, ok := respHeader["Content-Encoding"]; ok {
		return encoding.Encoding{}, skipAlreadyEncoded
	}

	ct := mediatype.ParseContentType(respHeader.Get("Content-Type"))
	if p.exclusions.Excludes(ct) {
		return encoding.Encoding{}, skipExcludedType
	}

	if req == nil {
		return encoding.Encoding{}, skipNotAccepted
	}
	for _, enc := range preference {
		if _, ok := p.encoders[enc]; !ok {
			continue
		}
		if acceptsEncoding(req.Header, enc) {
			return enc, ""
		}
	}
	return encoding.Encoding{}, skipNotAccepted
}

// acceptsEncoding reports whether the request lists the encoding's token in
// Accept-Encoding. Tokens are compared exactly after trimming surrounding
// whitespace: no quality values, no wildcard, no case folding. All
// Accept-Encoding header lines are consulted.
func acceptsEncoding(reqHeader http.Header, enc encoding.Encoding) bool {
	token := enc.String()
	for _, value := range reqHeader.Values("Accept-Encoding") {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == token {
				return true
			}
		}
	}
	return false
}
