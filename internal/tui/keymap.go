package tui

const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keySpace  = " "
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySpeak  = "s"
	keyCopy   = "c"
	keyManual = "n"
)
