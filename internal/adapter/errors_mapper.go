package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody caps how much of an error response ends up in logs.
const maxErrorBody = 128

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(resp.String())
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, resp.StatusCode(), body)
}
