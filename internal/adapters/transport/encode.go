package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/bnema/fin/internal/ports"
)

// appendQuery adds every pair to u's query in bag order, keeping what the
// URL already carried.
func appendQuery(u *url.URL, data ports.Values) {
	if len(data) == 0 {
		return
	}

	segments := make([]string, 0, len(data))
	for _, pair := range data {
		segments = append(segments, url.QueryEscape(pair.Key)+"="+url.QueryEscape(pair.Value))
	}
	encoded := strings.Join(segments, "&")

	if u.RawQuery == "" {
		u.RawQuery = encoded
		return
	}
	u.RawQuery += "&" + encoded
}

func encodeForm(data ports.Values) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, pair := range data {
		if err := writer.WriteField(pair.Key, pair.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %q: %w", pair.Key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
