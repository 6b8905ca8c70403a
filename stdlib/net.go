package stdlib

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"vx/value"
)

// HTTP natives return the response body as a string whatever the status.
func netNatives(client *http.Client) Table {
	do := func(method, url string, body io.Reader) (value.Value, error) {
		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return value.Value{}, errors.Wrap(err, "failed to create request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "%s %s", method, url)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return value.Value{}, errors.Wrap(err, "read response body")
		}
		return value.String(string(data)), nil
	}

	return Table{
		"http_get": strUnary(func(url string) (value.Value, error) {
			return do(http.MethodGet, url, nil)
		}),
		"http_post": strBinary(func(url, body string) (value.Value, error) {
			return do(http.MethodPost, url, strings.NewReader(body))
		}),
		"http_put": strBinary(func(url, body string) (value.Value, error) {
			return do(http.MethodPut, url, strings.NewReader(body))
		}),
		"http_delete": strUnary(func(url string) (value.Value, error) {
			return do(http.MethodDelete, url, nil)
		}),
	}
}
