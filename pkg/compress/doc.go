// Package compress negotiates and applies HTTP response compression.
//
// A Pipeline decides per response with three checks, in order:
//  1. A response that already declares any Content-Encoding is left alone.
//  2. A response whose declared Content-Type falls under the exclusion
//     list is left alone; a response declaring no usable type is fair game.
//  3. The request must list an enabled encoding's token verbatim in its
//     Accept-Encoding header. Brotli is preferred over gzip when both
//     qualify, and at most one encoding is ever applied.
//
// A Pipeline attaches to interceptor-style hosts through ModifyResponse,
// which is signature-compatible with the httputil.ReverseProxy hook of the
// same name, and to handler stacks through Middleware. Apply is the
// lower-level primitive for hosts that run the decision themselves.
package compress
