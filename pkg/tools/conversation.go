package tools

import (
	"context"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Conversation handles queries that need no external call: greetings,
// thanks, questions about the assistant itself. It is also the fallback
// action replans substitute after a failure.
type Conversation struct {
	Provider ports.Responder
}

type conversationParams struct {
	Query string `mapstructure:"query"`
}

func (c *Conversation) Name() string { return "Conversation" }

func (c *Conversation) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p conversationParams
	if err := decodeArgs(c.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}

	reply, err := c.Provider.Reply(ctx, p.Query)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Patch:   domain.Patch{"context": map[string]any{"conversation": map[string]any{"reply": reply}}},
		Snippet: reply,
	}, nil
}
