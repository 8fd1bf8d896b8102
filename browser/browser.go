// Package browser is a read-only terminal viewer over a loaded cheat
// file: an entry list on the left, the selected entry's converted
// body and any per-line errors on the right.
package browser

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/DKingAlpha/NxDmntASM/cheatfile"
)

// Browser is the terminal entry viewer.
type Browser struct {
	File   *cheatfile.File
	Indent int

	App        *tview.Application
	EntryList  *tview.List
	BodyView   *tview.TextView
	ErrorView  *tview.TextView
	StatusBar  *tview.TextView
	MainLayout *tview.Flex

	lastErrors []string
	current    int
}

// New creates a Browser over file, ready to Run.
func New(file *cheatfile.File, indent int) *Browser {
	b := &Browser{
		File:   file,
		Indent: indent,
		App:    tview.NewApplication(),
	}
	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	b.populateEntryList()
	return b
}

func (b *Browser) initializeViews() {
	b.EntryList = tview.NewList().ShowSecondaryText(false)
	b.EntryList.SetBorder(true).SetTitle(" Entries ")

	b.BodyView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.BodyView.SetBorder(true).SetTitle(" Body ")

	b.ErrorView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	b.ErrorView.SetBorder(true).SetTitle(" Errors ")

	b.StatusBar = tview.NewTextView().SetDynamicColors(true)
	b.StatusBar.SetText("[yellow]a[white]=assemble  [yellow]d[white]=disassemble  [yellow]q[white]=quit")
}

func (b *Browser) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.BodyView, 0, 3, false).
		AddItem(b.ErrorView, 8, 0, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.EntryList, 0, 1, true).
		AddItem(rightPanel, 0, 3, false)

	b.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 1, true).
		AddItem(b.StatusBar, 1, 0, false)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'a':
			b.runConversion(b.File.Assemble, true)
			return nil
		case 'd':
			b.runConversion(b.File.Disassemble, false)
			return nil
		case 'q':
			b.App.Stop()
			return nil
		}
		return event
	})
}

func (b *Browser) runConversion(convert func(filename string, handler cheatfile.ErrorHandler) bool, asHex bool) {
	b.lastErrors = nil
	convert("browse", func(err error) { b.lastErrors = append(b.lastErrors, err.Error()) })
	b.refreshBody(asHex)
}

func (b *Browser) populateEntryList() {
	for i, e := range b.File.Entries {
		label := e.Header
		if label == "" {
			label = fmt.Sprintf("entry %d", i+1)
		}
		idx := i
		b.EntryList.AddItem(label, "", 0, func() { b.showEntry(idx) })
	}
	b.EntryList.SetChangedFunc(func(idx int, _, _ string, _ rune) { b.showEntry(idx) })
	if len(b.File.Entries) > 0 {
		b.showEntry(0)
	}
}

func (b *Browser) showEntry(idx int) {
	b.current = idx
	b.refreshBody(false)
}

func (b *Browser) refreshBody(asHex bool) {
	b.BodyView.Clear()
	if b.current < 0 || b.current >= len(b.File.Entries) {
		return
	}
	e := b.File.Entries[b.current]
	var sb strings.Builder
	if e.Header != "" {
		fmt.Fprintf(&sb, "[yellow]%s[white]\n", e.Header)
	}
	for _, ln := range e.Lines {
		if ln.Inst != nil {
			if asHex {
				fmt.Fprintln(&sb, ln.Inst.MachineCode())
			} else {
				fmt.Fprintln(&sb, ln.Inst.Assembly())
			}
			continue
		}
		fmt.Fprintln(&sb, ln.Raw)
	}
	b.BodyView.SetText(sb.String())

	b.ErrorView.Clear()
	if len(b.lastErrors) == 0 {
		fmt.Fprint(b.ErrorView, "[green]no errors[white]")
		return
	}
	for _, e := range b.lastErrors {
		fmt.Fprintf(b.ErrorView, "[red]%s[white]\n", e)
	}
}

// Run starts the terminal UI and blocks until the user quits.
func (b *Browser) Run() error {
	return b.App.SetRoot(b.MainLayout, true).SetFocus(b.EntryList).Run()
}
