package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/folio-dev/folio/shared/api"
)

// ContactPath is the endpoint the form posts to.
const ContactPath = "/contact"

// SubmitContact posts the form fields url-encoded. Any non-2xx answer is a
// *StatusError, whatever its body says.
func (c *APIClient) SubmitContact(ctx context.Context, form url.Values) (api.ContactResponse, error) {
	var response api.ContactResponse

	resp, err := c.do(ctx, http.MethodPost, ContactPath, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return response, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response, &StatusError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return response, fmt.Errorf("cannot decode contact response: %w", err)
	}
	return response, nil
}
