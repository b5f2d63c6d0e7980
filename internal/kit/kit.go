package kit

import "context"

type UpdateKind string

const (
	UpdateMessage UpdateKind = "message"
)

type Update struct {
	Kind    UpdateKind
	Message *Message
}

type Message struct {
	ID           int
	ChatID       int64
	ThreadID     int
	FromID       int64
	FromUsername string
	Text         string
}

// ChatTarget identifies where a message should be delivered.
type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Notification is a transport-neutral outbound message used by services
// (notifier, log sink) instead of talking to the adapter directly.
type Notification struct {
	Channel  string
	Priority int // 0..9; >=5 warning, >=8 alert
	Target   ChatTarget
	Text     string
	Options  *SendOptions
}

type BotCommand struct {
	Command     string
	Description string
}

// Adapter abstracts the chat transport. Exactly one adapter runs per app.
type Adapter interface {
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
	UpdateMenuCommands(ctx context.Context, cmds []BotCommand) error
}
