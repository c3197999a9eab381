package yahttp

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// charsetReader decodes r from the charset declared in contentType into UTF-8.
// Unknown or missing charsets pass r through unchanged.
func charsetReader(contentType string, r io.Reader) io.Reader {
	name := charsetOf(contentType)
	if name == "" {
		return r
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return r
	}

	if canonical, err := htmlindex.Name(enc); err == nil && canonical == "utf-8" {
		return r
	}

	return transform.NewReader(r, enc.NewDecoder())
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(params["charset"])
}
