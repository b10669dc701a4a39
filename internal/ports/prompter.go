package ports

import "context"

// Prompter asks the user for input. PromptHidden returns
// domain.ErrUserCancelled when the user aborts and domain.ErrPromptUnavailable
// when nobody can answer.
type Prompter interface {
	PromptHidden(ctx context.Context, label string) (string, error)
	Confirm(ctx context.Context, label string, defaultYes bool) (bool, error)
}
