package tui

// Key bindings, as reported by tea.KeyMsg.String.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
	keyRetry     = "r"

	keyLeft     = "left"
	keyH        = "h"
	keyP        = "p"
	keyPgUp     = "pgup"
	keyRight    = "right"
	keyL        = "l"
	keyN        = "n"
	keyPgDown   = "pgdown"
	keyTab      = "tab"
	keyPlus     = "+"
	keyShiftTab = "shift+tab"
	keyMinus    = "-"
)
