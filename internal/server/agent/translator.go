package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/highlighter/internal/server/language"
)

// Sender is the part of Client the translator needs.
type Sender interface {
	SendMessage(ctx context.Context, agentID, text string) (string, error)
}

// Translator turns a translation request into an agent prompt.
type Translator struct {
	sender Sender
}

func NewTranslator(s Sender) *Translator {
	return &Translator{sender: s}
}

// Translate expands both languages to full names before building the prompt.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	reply, err := t.sender.SendMessage(ctx, "", Prompt(text, source, target))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Prompt renders the translation instruction sent to the agent.
func Prompt(text, source, target string) string {
	source = language.Expand(source)
	target = language.Expand(target)

	if source == language.Auto {
		return fmt.Sprintf(
			"Translate the following text to %s. Detect the source language automatically. "+
				"Reply with the translation only.\n\n%s", target, text)
	}
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Reply with the translation only.\n\n%s",
		source, target, text)
}
