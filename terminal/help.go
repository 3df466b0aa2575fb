package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HelpCategory groups related key bindings.
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

// HelpCategories lists every key binding of the editor.
func HelpCategories() []HelpCategory {
	return []HelpCategory{
		{
			Name: "Nodes",
			Commands: []HelpCommand{
				{"a", "Add a node"},
				{"e / Enter", "Edit the selected node"},
				{"c / Alt+Enter", "Add a child of the selection"},
				{"Del", "Delete the selection"},
			},
		},
		{
			Name: "While editing",
			Commands: []HelpCommand{
				{"Enter", "Commit and add a sibling"},
				{"Alt+Enter", "Commit and add a child"},
				{"Ctrl+N", "New line"},
				{"Esc", "Commit"},
				{"Ctrl+W/U/K", "Delete word / to line start / to line end"},
			},
		},
		{
			Name: "Styles",
			Commands: []HelpCommand{
				{"n", "Cycle node type"},
				{"l", "Cycle line type"},
				{"t", "Cycle dash type"},
				{"Ctrl+B", "Toggle bold"},
			},
		},
		{
			Name: "Navigation",
			Commands: []HelpCommand{
				{"Tab / S-Tab", "Next / previous node"},
				{"Alt+1..9", "Walk a hierarchy level"},
				{"h", "Add a child of the root"},
				{"/", "Search"},
				{"Arrows", "Pan"},
			},
		},
		{
			Name: "Mouse",
			Commands: []HelpCommand{
				{"Drag node", "Move it, or the selection"},
				{"Ctrl+click", "Add to the selection"},
				{"Double drag", "Branch from a node or blank space"},
				{"Right drag", "Select a rectangle"},
			},
		},
		{
			Name: "Document",
			Commands: []HelpCommand{
				{"Ctrl+A", "Select all"},
				{"Ctrl+Z / u", "Undo"},
				{"Ctrl+Y / Ctrl+R", "Redo"},
				{"Ctrl+J", "Copy the document as JSON"},
				{"?", "Toggle this help"},
				{"q / Ctrl+C", "Quit"},
			},
		},
	}
}

// CompactHelp returns a single-line hint for the status bar.
func CompactHelp() string {
	return "a:add e:edit c:child Tab:next n/l/t:style u:undo ?:help q:quit"
}

func (u *UI) drawHelp(w, h int) {
	var lines []string
	for i, cat := range HelpCategories() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, cat.Name+":")
		for _, cmd := range cat.Commands {
			lines = append(lines, fmt.Sprintf("  %-16s %s", cmd.Key, cmd.Description))
		}
	}

	boxW := 0
	for _, l := range lines {
		boxW = max(boxW, runewidth.StringWidth(l))
	}
	boxW += 4
	boxH := len(lines) + 2
	x0 := max(0, (w-boxW)/2)
	y0 := max(0, (h-1-boxH)/2)
	st := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

	for y := y0; y < y0+boxH; y++ {
		for x := x0; x < x0+boxW; x++ {
			u.put(x, y, ' ', st)
		}
	}
	u.put(x0, y0, '╔', st)
	u.put(x0+boxW-1, y0, '╗', st)
	u.put(x0, y0+boxH-1, '╚', st)
	u.put(x0+boxW-1, y0+boxH-1, '╝', st)
	for x := x0 + 1; x < x0+boxW-1; x++ {
		u.put(x, y0, '═', st)
		u.put(x, y0+boxH-1, '═', st)
	}
	for y := y0 + 1; y < y0+boxH-1; y++ {
		u.put(x0, y, '║', st)
		u.put(x0+boxW-1, y, '║', st)
	}
	for i, l := range lines {
		u.text(x0+2, y0+1+i, l, st)
	}
}
