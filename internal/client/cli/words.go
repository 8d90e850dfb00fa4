package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// report logs a failed command and hands the error back.
func (a *App) report(err error) error {
	log.Printf("Error: %s", err.Error())
	return err
}

func (a *App) Highlight(ctx context.Context, text string) error {
	u, err := a.api.Highlight(ctx, a.api.UserID(), text)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Saved %q (%d words)\n", text, len(u.HighlightedWords))
	return nil
}

func (a *App) Translate(ctx context.Context, text string) error {
	t, err := a.api.Translate(ctx, a.api.UserID(), text)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s -> %s: %s\n", t.SourceLanguage, t.TargetLanguage, t.TranslatedText)
	return nil
}

func (a *App) Words(ctx context.Context) error {
	words, err := a.api.Words(ctx, a.api.UserID())
	if err != nil {
		return a.report(err)
	}
	if len(words) == 0 {
		fmt.Fprintln(a.out, "No words yet")
		return nil
	}
	for i, w := range words {
		fmt.Fprintf(a.out, "%3d. %s\n", i+1, w)
	}
	return nil
}

func (a *App) RemoveWord(ctx context.Context, word string) error {
	words, err := a.api.RemoveWord(ctx, a.api.UserID(), word)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Removed %q, %d words left\n", word, len(words))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.api.Stats(ctx, a.api.UserID())
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Total words: %d\n", s.TotalWords)
	fmt.Fprintf(a.out, "Languages: %s -> %s\n", s.SourceLanguage, s.TargetLanguage)
	if len(s.RecentWords) > 0 {
		fmt.Fprintf(a.out, "Recent: %s\n", strings.Join(s.RecentWords, ", "))
	}
	return nil
}

// Languages sets the source and target language. Either may be left empty
// at the prompt to keep the current value.
func (a *App) Languages(ctx context.Context) error {
	source, err := getSimpleText(a.reader, "Source language (empty to keep)", a.out)
	if err != nil {
		return err
	}
	target, err := getSimpleText(a.reader, "Target language (empty to keep)", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.UpdateLanguages(ctx, a.api.UserID(), source, target)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Languages: %s -> %s\n", u.SourceLanguage, u.TargetLanguage)
	return nil
}
