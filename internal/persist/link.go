package persist

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/roach88/pixelgrid/internal/board"
)

// SoftLinkLimit is the encoded length above which share links are known to
// break in common browsers and proxies. It is advisory only.
const SoftLinkLimit = 32 * 1024

// EncodeFragment returns base64(JSON(d)), the fragment of a share link.
func EncodeFragment(d *board.Dashboard) (string, error) {
	data, err := Encode(d)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ShareLink appends the encoded dashboard to base as a fragment. Any
// fragment already on base is replaced.
func ShareLink(base string, d *board.Dashboard) (string, error) {
	frag, err := EncodeFragment(d)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + frag, nil
}

// FragmentOf extracts the fragment of a full link. A bare fragment (with or
// without the leading '#') is returned unchanged.
func FragmentOf(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[i+1:]
	}
	return link
}

// DecodeFragment reverses EncodeFragment. The fragment is percent-decoded
// first, since shared links are often re-escaped in transit. Padded and
// unpadded input in both the standard and URL-safe alphabets is accepted.
func DecodeFragment(fragment string) (*board.Dashboard, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return nil, fmt.Errorf("%w: empty link fragment", ErrMalformed)
	}

	// PathUnescape leaves '+' alone, which base64 needs.
	unescaped, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: unescape fragment: %v", ErrMalformed, err)
	}

	data, err := decodeBase64(unescaped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(data)
}

func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("decode base64: %w", firstErr)
}
