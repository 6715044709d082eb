package service

import "errors"

// ErrUnknownAction is returned for callback tokens the service does not understand.
var ErrUnknownAction = errors.New("unknown action")

// Action tokens carried by inline buttons.
const (
	ActionSave         = "save"
	ActionDeletePrefix = "delete_"
)

// Event is one inbound update from the chat transport.
type Event struct {
	UserID int64
	// UpdateID is the transport's monotonically increasing update id; zero disables duplicate detection.
	UpdateID int
	Text     string
	Data     string
}

// Action is a single inline button.
type Action struct {
	Label string
	Token string
}

// Reply is a transport-neutral output directive.
// Choices is a one-time reply keyboard; Action is an inline button.
type Reply struct {
	Text           string
	Choices        [][]string
	Action         *Action
	RemoveKeyboard bool
}

// Empty reports whether there is nothing to send.
func (r Reply) Empty() bool {
	return r.Text == ""
}

// Fixed user-facing texts.
const (
	WelcomeText = "Hello there! 👋\n\n" +
		"Use /search to look up a player and /replay to repeat the last search.\n" +
		"Saved searches are under /list."
	CreditsText = "*API developed by*: [Fortnite-API](https://fortnite-api.com/)\n" +
		"*Bot developed by*: [Radeox](https://github.com/radeox)"

	PromptUsername   = "*Send me the username*"
	PromptPlatform   = "*Which platform?*"
	PromptTimeWindow = "*Lifetime data or just the current season?*"
	PromptMatchType  = "*Match type?*"
	PromptSelection  = "*Pick a search to run it again*"

	FailureText      = "*Something went wrong. Try again 😕*"
	RetryText        = "*The stats service did not answer. Pick the match type again 🔄*"
	NoReplayText     = "*Can't replay last search 😕*"
	EmptyListText    = "*You have no saved searches 📭*"
	NotFoundListText = "*Could not find that search 🔍*"
	NothingToSave    = "*Nothing to save 😕*"
	SavedText        = "*Search saved 💾*"
	AlreadySavedText = "*Search already saved 👌*"
	RemovedText      = "*Search removed 🗑*"

	SaveLabel   = "💾 Save"
	RemoveLabel = "🗑 Remove"
)

func failureReply() Reply {
	return Reply{Text: FailureText, RemoveKeyboard: true}
}
