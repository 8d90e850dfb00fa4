package cli

import (
	"context"
	"fmt"
)

const historyLimit = 20

func (a *App) Chat(ctx context.Context, text string) error {
	reply, err := a.api.SendMessage(ctx, a.api.UserID(), text)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "agent: %s\n", reply)
	return nil
}

func (a *App) History(ctx context.Context) error {
	msgs, err := a.api.Messages(ctx, a.api.UserID(), historyLimit)
	if err != nil {
		return a.report(err)
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "%s: %s\n", m.Role, m.Content)
	}
	return nil
}
