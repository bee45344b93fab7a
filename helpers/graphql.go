package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/zer0-os/zdao-sdk-go/sdkerr"
)

// GraphQLRequest is the POST body of a GraphQL query.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// GraphQL runs a query against a GraphQL endpoint and decodes its data object into out.
// Reported GraphQL errors and a missing data object are malformed responses.
func (f *Fetcher) GraphQL(ctx context.Context, url, query string, variables map[string]any, out any) error {
	resp := graphQLResponse{}
	if err := f.PostJSON(ctx, url, GraphQLRequest{Query: query, Variables: variables}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return sdkerr.Malformed(f.source, "errors", errors.New(strings.Join(msgs, "; ")))
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return sdkerr.Malformed(f.source, "data", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return sdkerr.Malformed(f.source, "data", err)
	}
	return nil
}
