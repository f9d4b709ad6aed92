// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/buckeye17/sleepwithdash/internal/logging"
)

// maxDecodedPayload caps the decompressed size of one provider response.
const maxDecodedPayload = 64 << 20

type decoderFunc func(io.Reader) (io.Reader, error)

var decoders = map[string]decoderFunc{
	"br": func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	},
	"gzip": func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	},
	"deflate": func(r io.Reader) (io.Reader, error) {
		br := bufio.NewReader(r)
		// Servers disagree on whether "deflate" carries the zlib wrapper.
		if hdr, err := br.Peek(2); err == nil && (uint16(hdr[0])<<8|uint16(hdr[1]))%31 == 0 && hdr[0]&0x0f == 8 {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	},
}

// sniffOrder is tried when the body is not JSON after honouring the
// declared encoding.
var sniffOrder = []string{"br", "gzip"}

// decodePayload returns body as JSON text. The declared Content-Encoding is
// applied first; if the result still does not look like JSON, the other known
// encodings are tried in turn. Net/http already unpacks gzip when it added
// the Accept-Encoding header itself, so identity bodies are common.
func decodePayload(body []byte, contentEncoding string) ([]byte, error) {
	enc := strings.ToLower(strings.TrimSpace(contentEncoding))
	if enc != "" && enc != "identity" {
		if dec, ok := decoders[enc]; ok {
			out, err := decodeWith(dec, body)
			if err == nil && looksLikeJSON(out) {
				return out, nil
			}
			logging.Debug().Str("encoding", enc).Err(err).Msg("Declared encoding did not yield JSON")
		}
	}
	if looksLikeJSON(body) {
		return body, nil
	}
	for _, name := range sniffOrder {
		out, err := decodeWith(decoders[name], body)
		if err == nil && looksLikeJSON(out) {
			logging.Debug().Str("encoding", name).Msg("Recovered payload with alternate decoding")
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %d bytes, content-encoding %q", ErrUndecodablePayload, len(body), contentEncoding)
}

func decodeWith(dec decoderFunc, body []byte) ([]byte, error) {
	r, err := dec(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	return io.ReadAll(io.LimitReader(r, maxDecodedPayload))
}

// looksLikeJSON reports whether the first non-space byte can start a JSON
// value.
func looksLikeJSON(b []byte) bool {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 {
		return false
	}
	switch c := b[0]; {
	case c == '[', c == '{', c == '"', c == '-':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == 't', c == 'f', c == 'n':
		return bytes.HasPrefix(b, []byte("true")) || bytes.HasPrefix(b, []byte("false")) || bytes.HasPrefix(b, []byte("null"))
	}
	return false
}
