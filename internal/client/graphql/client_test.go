package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)

	client, err := New(s.URL, s.Client())
	require.NoError(t, err)
	return client
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		_, _ = fmt.Fprint(rw, body)
	}
}

func TestNew(t *testing.T) {
	_, err := New("", nil)
	require.Error(t, err)
}

func TestClientMyDataRequest(t *testing.T) {
	var (
		method string
		body   map[string]any
	)
	client := newTestClient(t, func(rw http.ResponseWriter, r *http.Request) {
		method = r.Method
		data, err := io.ReadAll(r.Body)
		if err == nil {
			err = json.Unmarshal(data, &body)
		}
		if err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		respondWith(http.StatusOK, `{"data": {"me": [{"id": 1}]}}`)(rw, r)
	})

	_, err := client.MyData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, MyDataQuery, body["query"])
	assert.Equal(t, "MyData", body["operationName"])
	assert.NotContains(t, body, "variables")
}

func TestClientMyData(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		me := `{"user_books": [{"id": 7, "rating": 4.5, "book": {"title": "Dune"}}], "lists": []}`
		client := newTestClient(t, respondWith(http.StatusOK, `{"data": {"me": [`+me+`]}}`))

		result, err := client.MyData(context.Background())
		require.NoError(t, err)

		var got, want any
		require.NoError(t, json.Unmarshal(result, &got))
		require.NoError(t, json.Unmarshal([]byte(me), &want))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("me mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GraphQLErrors", func(t *testing.T) {
		client := newTestClient(t, respondWith(http.StatusOK, `{
	"errors": [
		{
			"message": "Could not verify JWT: JWSInvalidSignature",
			"extensions": {"code": "invalid-jwt", "path": "$"}
		}
	]
}`))

		_, err := client.MyData(context.Background())
		var respErr *ResponseError
		require.True(t, errors.As(err, &respErr), "got %v", err)
		require.Len(t, respErr.Errors, 1)
		assert.Equal(t, "Could not verify JWT: JWSInvalidSignature", respErr.Errors[0].Message)
		assert.Contains(t, respErr.JSON(), `"message":"Could not verify JWT: JWSInvalidSignature"`)
		assert.Contains(t, respErr.JSON(), `"code":"invalid-jwt"`)
	})

	t.Run("ErrorsKeyPresent", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{name: "EmptyArray", body: `{"errors": [], "data": {"me": [{"id": 1}]}}`, want: `[]`},
			{name: "Null", body: `{"errors": null, "data": {"me": [{"id": 1}]}}`, want: `null`},
			{
				name: "KeptAsSent",
				body: `{"errors": [{"message": "boom", "extensions": {"zeta": 1, "alpha": 2}, "hint": "x"}]}`,
				want: `[{"message":"boom","extensions":{"zeta":1,"alpha":2},"hint":"x"}]`,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newTestClient(t, respondWith(http.StatusOK, tt.body))

				me, err := client.MyData(context.Background())
				assert.Nil(t, me)
				var respErr *ResponseError
				require.True(t, errors.As(err, &respErr), "got %v", err)
				assert.Equal(t, tt.want, respErr.JSON())
			})
		}
	})

	t.Run("HTTPStatus", func(t *testing.T) {
		client := newTestClient(t, respondWith(http.StatusServiceUnavailable, `upstream down`))

		_, err := client.MyData(context.Background())
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "got %v", err)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.EqualError(t, err, "HTTP 503 Service Unavailable")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		client := newTestClient(t, respondWith(http.StatusOK, `not json`))

		_, err := client.MyData(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query my data")
	})

	t.Run("Shapes", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			wantErr error
			count   int
		}{
			{name: "NoData", body: `{}`, wantErr: ErrMissingData},
			{name: "NullData", body: `{"data": null}`, wantErr: ErrMissingData},
			{name: "NoMe", body: `{"data": {}}`, wantErr: ErrMissingMe},
			{name: "NullMe", body: `{"data": {"me": [null]}}`, wantErr: ErrMissingMe},
			{name: "EmptyMe", body: `{"data": {"me": []}}`, count: 0},
			{name: "TwoMe", body: `{"data": {"me": [{"id": 1}, {"id": 2}]}}`, count: 2},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newTestClient(t, respondWith(http.StatusOK, tt.body))

				_, err := client.MyData(context.Background())
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}

				var cardErr *CardinalityError
				require.True(t, errors.As(err, &cardErr), "got %v", err)
				assert.Equal(t, tt.count, cardErr.Count)
			})
		}
	})
}
