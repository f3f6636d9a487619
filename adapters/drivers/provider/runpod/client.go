package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultEndpoint is the provider GraphQL API endpoint.
const DefaultEndpoint = "https://api.runpod.io/graphql"

// client is a minimal GraphQL-over-HTTP client for the provider API.
type client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// do posts a GraphQL query and unmarshals the data envelope into out.
// GraphQL-level errors are joined into a single Go error so callers see the
// provider's message text verbatim.
func (c *client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling provider API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider API returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decoding provider response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("provider API error: %s", strings.Join(msgs, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decoding provider data: %w", err)
		}
	}
	return nil
}
