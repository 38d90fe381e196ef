package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// DefaultRejectionMessage is shown when a rejection carries no reason
const DefaultRejectionMessage = "Login failed. Please try again."

const unreachableMessage = "Could not reach the BloodLink service. Please try again."

const malformedMessage = "Unexpected response from the BloodLink service. Please try again."

type exchangeRequest struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

var _ ports.TokenExchanger = (*Client)(nil)

// Exchange posts the credential and the declared role to the exchange endpoint.
// Failures are *core.ExchangeError of kind rejected, malformed or unreachable.
// The returned role is passed through unvalidated.
func (c *Client) Exchange(ctx context.Context, credential core.Credential, declared core.Role) (core.ExchangeResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.exchangePath, "", exchangeRequest{
		Token: string(credential),
		Role:  declared.String(),
	})
	if err != nil {
		return core.ExchangeResult{}, &core.ExchangeError{Kind: core.FailureUnreachable, Message: unreachableMessage, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.ExchangeResult{}, &core.ExchangeError{
			Kind:    core.FailureUnreachable,
			Message: unreachableMessage,
			Err:     fmt.Errorf("executing request: %w", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return core.ExchangeResult{}, &core.ExchangeError{
			Kind:    core.FailureUnreachable,
			Message: unreachableMessage,
			Err:     fmt.Errorf("reading response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: errorDetail(raw)}
		message := apiErr.Detail
		if message == "" {
			message = DefaultRejectionMessage
		}
		return core.ExchangeResult{}, &core.ExchangeError{Kind: core.FailureRejected, Message: message, Err: apiErr}
	}

	var body exchangeResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return core.ExchangeResult{}, &core.ExchangeError{
			Kind:    core.FailureMalformed,
			Message: malformedMessage,
			Err:     fmt.Errorf("decoding response: %w", err),
		}
	}
	if body.AccessToken == "" {
		return core.ExchangeResult{}, &core.ExchangeError{
			Kind:    core.FailureMalformed,
			Message: malformedMessage,
			Err:     errors.Join(errors.New("response has no access_token"), core.ErrEmptyToken),
		}
	}

	return core.ExchangeResult{AccessToken: body.AccessToken, Role: body.Role}, nil
}
