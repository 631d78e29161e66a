// Package graphql talks to the Hardcover GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Khan/genqlient/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// DefaultEndpoint is the production Hardcover GraphQL endpoint.
const DefaultEndpoint = "https://hardcover-production.hasura.app/v1/graphql"

type Client struct {
	endpoint string
	doer     graphql.Doer
}

func New(endpoint string, httpClient *http.Client) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("graphql endpoint is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		doer:     httpClient,
	}, nil
}

type myDataResponse struct {
	Me *[]json.RawMessage `json:"me"`
}

// MyData runs MyDataQuery and returns the single element of "data.me"
// exactly as the service encoded it.
//
// A response carrying an "errors" key fails with *ResponseError even when
// the value is empty or null.
func (c *Client) MyData(ctx context.Context) (json.RawMessage, error) {
	var data *myDataResponse
	resp := graphql.Response{Data: &data}

	rec := &bodyRecorder{doer: c.doer}
	err := graphql.NewClient(c.endpoint, rec).MakeRequest(
		ctx,
		&graphql.Request{Query: MyDataQuery, OpName: OperationName},
		&resp,
	)

	var httpErr *graphql.HTTPError
	if errors.As(err, &httpErr) {
		return nil, &StatusError{StatusCode: httpErr.StatusCode}
	}
	if raw, ok := rec.errorsField(); ok {
		return nil, &ResponseError{Errors: resp.Errors, Raw: raw}
	}
	if err != nil {
		return nil, convertError(err)
	}

	return unwrapMe(data)
}

func unwrapMe(data *myDataResponse) (json.RawMessage, error) {
	if data == nil {
		return nil, errors.WithStack(ErrMissingData)
	}
	if data.Me == nil {
		return nil, errors.WithStack(ErrMissingMe)
	}
	if n := len(*data.Me); n != 1 {
		return nil, &CardinalityError{Count: n}
	}
	me := (*data.Me)[0]
	if len(me) == 0 || string(me) == "null" {
		return nil, errors.WithStack(ErrMissingMe)
	}
	return me, nil
}

func convertError(err error) error {
	var gqlErrs gqlerror.List
	if errors.As(err, &gqlErrs) {
		return &ResponseError{Errors: gqlErrs}
	}

	return errors.Wrap(err, "failed to query my data")
}

// bodyRecorder keeps a copy of a successful response body so the envelope
// can be inspected beyond what genqlient decodes.
type bodyRecorder struct {
	doer graphql.Doer
	body []byte
}

func (r *bodyRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.doer.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	r.body = data
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

// errorsField returns the raw "errors" value and whether the key is present.
func (r *bodyRecorder) errorsField() (json.RawMessage, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(r.body, &envelope); err != nil {
		return nil, false
	}
	raw, ok := envelope["errors"]
	return raw, ok
}
