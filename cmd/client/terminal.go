package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"

	"github.com/KirkDiggler/mindmeld/internal/client"
)

// terminal renders phases as plain text. Repeated identical phases are
// skipped so polling does not flood the screen.
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	last client.RenderPhase
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) Render(phase client.RenderPhase) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if reflect.DeepEqual(phase, t.last) {
		return
	}
	t.last = phase

	switch p := phase.(type) {
	case client.AwaitingReady:
		fmt.Fprintln(t.out, "\n== Lobby ==")
		t.rows(p.Rows, func(r client.Row) string { return check(r.Ready, "ready") })
		if !p.Ready {
			fmt.Fprintln(t.out, "type 'ready' when everyone is here")
		}
	case client.AwaitingAnswer:
		fmt.Fprintf(t.out, "\n== Round %d ==\nThe word is: %s\n", p.Round, strings.ToUpper(p.Prompt))
		fmt.Fprintln(t.out, "type the first word that comes to mind")
	case client.Submitted:
		fmt.Fprintf(t.out, "you said %q, waiting on %s\n", p.Answer, strings.Join(p.Waiting, ", "))
	case client.Scoring:
		fmt.Fprintf(t.out, "\n== Round %d results for %s ==\n", p.Round, strings.ToUpper(p.Prompt))
		t.rows(p.Rows, func(r client.Row) string {
			return fmt.Sprintf("%-16q %3d pts %s", r.Answer, r.Score, check(r.NextReady, "next"))
		})
		if !p.NextReady {
			fmt.Fprintln(t.out, "type 'next' to continue")
		}
	case client.Finished:
		fmt.Fprintf(t.out, "\n== Game over, %s wins ==\n", p.WinnerName)
		t.rows(p.Rows, func(r client.Row) string { return fmt.Sprintf("%3d pts", r.Score) })
	}
}

func (t *terminal) Alert(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "! %s\n", err)
}

// joined prints the game code along with a QR code others can scan to join
func (t *terminal) joined(sc client.SessionContext, joinURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "joined game %s\n", sc.GameCode)
	if joinURL == "" {
		return
	}
	qr, err := qrcode.New(joinURL, qrcode.Medium)
	if err != nil {
		fmt.Fprintf(t.out, "! %s\n", err)
		return
	}
	fmt.Fprint(t.out, qr.ToSmallString(false))
	fmt.Fprintln(t.out, joinURL)
}

func (t *terminal) rows(rows []client.Row, detail func(client.Row) string) {
	for _, r := range rows {
		marker := " "
		if r.Me {
			marker = "*"
		}
		fmt.Fprintf(t.out, "%s %-24s %s\n", marker, r.Name, detail(r))
	}
}

func check(ok bool, label string) string {
	if ok {
		return label
	}
	return ""
}
