package input

// Code identifies a non-printable key by its classic key code.
type Code int

const (
	CodeNone      Code = 0
	CodeCtrlC     Code = 3
	CodeBackspace Code = 8
	CodeTab       Code = 9
	CodeEnter     Code = 13
	CodeCopy      Code = 25
	CodeUp        Code = 38
	CodeDown      Code = 40
)

// KeyEvent is one key press. Printable input carries Text and CodeNone.
type KeyEvent struct {
	Code Code
	Text string
	Ctrl bool
	// Editable is set when focus sits in a native text field.
	Editable bool
}

// State is presentational only.
type State int

const (
	Idle State = iota
	Typing
)

func (s State) String() string {
	if s == Typing {
		return "typing"
	}
	return "idle"
}

// Result tells the view what follow-up a key, click or wheel event needs.
type Result struct {
	// Handled means the default action is suppressed.
	Handled bool
	// Debounce is the generation to pass to TypingExpired once the typing
	// buffer elapses. Zero schedules nothing.
	Debounce uint64
	// OpenURL is a link the view should open.
	OpenURL string
	// Copy is text the view should put on the clipboard.
	Copy string
	// Title is the title of a clicked anchor.
	Title string
}
