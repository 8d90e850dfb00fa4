package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	Highlight(ctx context.Context, text string) error
	Translate(ctx context.Context, text string) error
	Words(ctx context.Context) error
	RemoveWord(ctx context.Context, word string) error
	Stats(ctx context.Context) error
	Languages(ctx context.Context) error
	Chat(ctx context.Context, text string) error
	History(ctx context.Context) error
	Audio(ctx context.Context, path string) error
}

// usage lists, per command, the argument it needs or "" when it takes none.
var usage = map[string]string{
	"highlight": "highlight <text>",
	"translate": "translate <text>",
	"remove":    "remove <word>",
	"chat":      "chat <text>",
	"audio":     "audio <file>",
}

// runREPL reads commands line by line and dispatches them to a.
//
//	Not logged in:
//	  help, register, login, translate <text>, exit | quit
//
//	Logged in:
//	  help, whoami, highlight <text>, translate <text>, words,
//	  remove <word>, stats, languages, chat <text>, history,
//	  audio <file>, logout, exit | quit
//
// The rest of the line after the command is passed through as its argument.
// Handler errors are ignored here; handlers log their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		if u, ok := usage[cmd]; ok && arg == "" {
			printlnFn("Usage:", u)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, highlight, translate, words, remove, stats, languages, chat, history, audio, logout, exit")
			} else {
				printlnFn("Available commands: register, login, translate, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "translate":
			_ = a.Translate(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "whoami", "highlight", "words", "remove", "stats", "languages", "chat", "history", "audio", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			dispatch(ctx, a, cmd, arg)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "highlight":
		_ = a.Highlight(ctx, arg)
	case "words":
		_ = a.Words(ctx)
	case "remove":
		_ = a.RemoveWord(ctx, arg)
	case "stats":
		_ = a.Stats(ctx)
	case "languages":
		_ = a.Languages(ctx)
	case "chat":
		_ = a.Chat(ctx, arg)
	case "history":
		_ = a.History(ctx)
	case "audio":
		_ = a.Audio(ctx, arg)
	case "logout":
		_ = a.Logout(ctx)
	}
}
