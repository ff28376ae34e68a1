package extract

import "context"

// Capability performs semantic extraction: it receives a prompt and
// returns the raw model output, ideally a JSON array of atom objects.
type Capability interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, p Prompt) (string, error)

func (f CapabilityFunc) Generate(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
