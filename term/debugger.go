package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/katsu-lua/lua54/api"
)

// Debugger is a tview/tcell call-stack and locals inspector driven by the
// VM's line hook: every line event blocks the running chunk until the
// user presses 's' (step), 'c' (continue) or 'q' (detach and run free).
type Debugger struct {
	app      *tview.Application
	view     *tview.TextView
	cmds     chan rune
	stepping bool
}

func NewDebugger() *Debugger {
	view := tview.NewTextView().SetDynamicColors(true)
	view.SetBorder(true).SetTitle(" lua54 debugger (s=step c=continue q=quit) ")

	app := tview.NewApplication().SetRoot(view, true)
	d := &Debugger{app: app, view: view, cmds: make(chan rune, 1), stepping: true}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 's', 'c', 'q':
			d.cmds <- event.Rune()
			return nil
		}
		return event
	})

	return d
}

// Run starts the tview event loop in the background.
func (d *Debugger) Run() {
	go func() {
		d.app.Run()
	}()
}

// Attach installs this debugger as ls's per-line hook.
func (d *Debugger) Attach(ls api.State) {
	ls.SetHook(d.onLine, api.HookLine, 0)
}

// Stop tears down the tview event loop. Safe to call even if the user
// already quit with 'q', which stops the app itself.
func (d *Debugger) Stop() {
	d.app.Stop()
}

func (d *Debugger) onLine(ls api.State, event int, line int) {
	if event != api.HookLine || !d.stepping {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]line %d[white]\n\n", line)
	b.WriteString("[::b]call stack[::-]\n")
	for level := 0; ; level++ {
		info, ok := ls.GetInfo(level, "Sl")
		if !ok {
			break
		}
		fmt.Fprintf(&b, "  #%d %s:%d (%s)\n", level, info.ShortSrc, info.CurrentLine, info.What)
	}

	b.WriteString("\n[::b]locals[::-]\n")
	for n := 1; ; n++ {
		name, ok := ls.GetLocal(0, n)
		if !ok {
			break
		}
		fmt.Fprintf(&b, "  %s = %s\n", name, ls.ToString2(-1))
		ls.Pop(1)
	}

	d.app.QueueUpdateDraw(func() {
		d.view.SetText(b.String())
	})

	switch <-d.cmds {
	case 'q':
		d.stepping = false
		d.app.QueueUpdateDraw(func() { d.app.Stop() })
	case 'c':
		d.stepping = false
	case 's':
		// stay stepping; loop back on next line hook
	}
}
