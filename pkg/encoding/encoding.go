// Package encoding models HTTP content codings as they appear in the
// Accept-Encoding and Content-Encoding headers.
//
// The registered codings are exposed as predeclared values; any other token
// (including the empty string) is carried verbatim as an extension value.
// Parsing never fails, and formatting an encoding restores the exact token
// it was parsed from, so unknown tokens survive a round trip unchanged.
package encoding

// Encoding is a single content-coding token. The zero value is the empty
// extension token. Encoding values are comparable: two values are equal
// exactly when they format to the same token.
type Encoding struct {
	kind kind
	ext  string
}

type kind uint8

const (
	kindExt kind = iota
	kindChunked
	kindBrotli
	kindGzip
	kindDeflate
	kindCompress
	kindIdentity
	kindTrailers
)

// Registered content codings. Brotli formats as "br", its registered token.
var (
	Chunked  = Encoding{kind: kindChunked}
	Brotli   = Encoding{kind: kindBrotli}
	Gzip     = Encoding{kind: kindGzip}
	Deflate  = Encoding{kind: kindDeflate}
	Compress = Encoding{kind: kindCompress}
	Identity = Encoding{kind: kindIdentity}
	Trailers = Encoding{kind: kindTrailers}
)

// Ext returns the extension encoding for an arbitrary token. The token is
// kept verbatim, even when empty.
func Ext(token string) Encoding {
	return Encoding{ext: token}
}

// Parse maps a token to its registered encoding, or to an extension value
// when the token is not registered. Matching is exact and case sensitive:
// "gzip" is registered, "Gzip" is an extension. Parse never fails.
func Parse(token string) Encoding {
	switch token {
	case "chunked":
		return Chunked
	case "br":
		return Brotli
	case "gzip":
		return Gzip
	case "deflate":
		return Deflate
	case "compress":
		return Compress
	case "identity":
		return Identity
	case "trailers":
		return Trailers
	default:
		return Ext(token)
	}
}

// String formats the encoding as its header token.
func (e Encoding) String() string {
	switch e.kind {
	case kindChunked:
		return "chunked"
	case kindBrotli:
		return "br"
	case kindGzip:
		return "gzip"
	case kindDeflate:
		return "deflate"
	case kindCompress:
		return "compress"
	case kindIdentity:
		return "identity"
	case kindTrailers:
		return "trailers"
	default:
		return e.ext
	}
}

// IsExt reports whether the encoding is an extension token rather than one
// of the registered codings.
func (e Encoding) IsExt() bool {
	return e.kind == kindExt
}
