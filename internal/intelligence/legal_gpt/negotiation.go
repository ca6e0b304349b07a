package legal_gpt

import (
	"context"
	"strings"

	"github.com/turtacn/SynthLaw/pkg/errors"
)

// NegotiationPoint is one risk to address in a drafted e-mail. It carries no
// contract text.
type NegotiationPoint struct {
	Clause   string `json:"clause"`
	Severity string `json:"severity"`
	Issue    string `json:"issue"`
	Proposal string `json:"proposal"`
}

// EmailRequest is the input of DraftEmail.
type EmailRequest struct {
	Points []NegotiationPoint `json:"points"`
	Goals  []string           `json:"goals,omitempty"`
}

// DraftEmail asks the collaborator for a negotiation e-mail. An empty reply
// is reported as malformed output.
func (c *Collaborator) DraftEmail(ctx context.Context, req EmailRequest) (string, error) {
	if len(req.Points) == 0 {
		return "", errors.InvalidParam("no negotiation points to draft from")
	}
	if err := c.ready(); err != nil {
		return "", err
	}
	prompt, err := BuildNegotiationPrompt(req)
	if err != nil {
		return "", err
	}
	reply, err := c.complete(ctx, OpNegotiate, c.cfg.Negotiation, prompt)
	if err != nil {
		return "", err
	}
	email := strings.TrimSpace(reply)
	if email == "" {
		return "", errors.New(errors.ErrCodeAIMalformedOutput, "empty e-mail draft")
	}
	return email, nil
}
