package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var (
	// ErrMissingData means the response had neither "errors" nor "data".
	ErrMissingData = errors.New("response has no data")
	// ErrMissingMe means "data" did not contain a "me" array.
	ErrMissingMe = errors.New("response data has no me field")
)

// ResponseError is returned when the response has an "errors" field.
// GraphQL over HTTP puts all errors into a 200 response.
type ResponseError struct {
	Errors gqlerror.List
	// Raw is the "errors" value as the service sent it. It may be an empty
	// array or null.
	Raw json.RawMessage
}

func (e *ResponseError) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors.Error()
	}
	return "graphql response has errors: " + e.JSON()
}

func (e *ResponseError) Unwrap() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e.Errors
}

// JSON renders the errors compactly. Raw is used when present so keys and
// their order stay as the service sent them.
func (e *ResponseError) JSON() string {
	if len(e.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, e.Raw); err == nil {
			return buf.String()
		}
	}
	data, err := json.Marshal(e.Errors)
	if err != nil {
		return e.Errors.Error()
	}
	return string(data)
}

// StatusError is returned for a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// CardinalityError is returned when "me" does not hold exactly one element.
type CardinalityError struct {
	Count int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected exactly one me element, got %d", e.Count)
}
