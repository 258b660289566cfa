package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"countrycard/internal/card"
)

// Run is the interactive prompt loop. Each line is a country name, "#n" to
// search the n-th recent entry again, "clear" to forget recent searches or
// "quit". It returns at EOF or on quit.
func Run(ctx context.Context, in io.Reader, out io.Writer, svc *Service, r *card.Renderer) error {
	rd := bufio.NewReader(in)

	fmt.Fprintln(out, "Enter a country name (#n repeats a recent search, \"clear\" forgets them, \"quit\" exits).")
	printRecent(out, r, svc.Recent.Load(ctx))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		line, err := rd.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		atEOF := err == io.EOF

		cmd := strings.TrimSpace(line)
		switch {
		case cmd == "" && atEOF:
			fmt.Fprintln(out)
			return nil
		case cmd == "quit" || cmd == "exit":
			return nil
		case cmd == "clear":
			if err := svc.Recent.Clear(ctx); err != nil {
				fmt.Fprintln(out, r.RenderWarning("Recent searches could not be removed from storage."))
			}
			fmt.Fprintln(out, "Recent searches cleared.")
		default:
			lookupLine(ctx, out, svc, r, cmd)
		}

		if atEOF {
			return nil
		}
	}
}

func lookupLine(ctx context.Context, out io.Writer, svc *Service, r *card.Renderer, cmd string) {
	var (
		res *LookupResult
		err error
	)
	if n, ok := parseRecentRef(cmd); ok {
		res, err = svc.LookupRecent(ctx, n)
	} else {
		res, err = svc.Lookup(ctx, cmd)
	}

	if err != nil {
		msg := UserMessage(err)
		if msg == MsgEmptyQuery {
			fmt.Fprintln(out, r.RenderWarning(msg))
		} else {
			fmt.Fprintln(out, r.RenderError(msg))
		}
		return
	}

	fmt.Fprintln(out, r.Render(res.Card))
	if res.StorageWarning != nil {
		fmt.Fprintln(out, r.RenderWarning("Recent searches are kept for this session only."))
	}
	printRecent(out, r, res.Recent)
}

func printRecent(out io.Writer, r *card.Renderer, names []string) {
	if s := r.RenderRecent(names); s != "" {
		fmt.Fprintln(out, s)
	}
}

// parseRecentRef accepts "#n" with n >= 1.
func parseRecentRef(s string) (int, bool) {
	if !strings.HasPrefix(s, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[1:]))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
