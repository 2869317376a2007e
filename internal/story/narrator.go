package story

import (
	"context"
	"fmt"
)

// Narrator produces the reply to a player message.
type Narrator interface {
	Respond(ctx context.Context, input string) (string, error)
}

// EchoNarrator acknowledges the player's text. There is no game logic behind it.
type EchoNarrator struct{}

// Respond implements Narrator.
func (EchoNarrator) Respond(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Understood: \"%s\". This is where the game logic would come in!", input), nil
}
