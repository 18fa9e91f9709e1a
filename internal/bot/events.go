// Package bot implements the chat conversation independently of the
// messaging platform. Transports turn platform updates into Events and
// implement Sender.
package bot

import (
	"context"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventText
	EventLocation
	EventCallback
	EventInline
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventText:
		return "text"
	case EventLocation:
		return "location"
	case EventCallback:
		return "callback"
	case EventInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Event is one incoming user action. Text carries the message text, the
// callback data or the inline query depending on Kind.
type Event struct {
	Kind       EventKind
	UserID     int64
	ChatID     int64
	Text       string
	Location   *weather.Coordinate
	CallbackID string
	InlineID   string
}

type Button struct {
	Text            string
	Data            string
	RequestLocation bool
}

// Message is an outgoing HTML message. At most one of Menu (a persistent
// reply keyboard) and Inline (buttons under the message) is used.
type Message struct {
	ChatID int64
	Text   string
	Menu   [][]Button
	Inline [][]Button
}

type InlineResult struct {
	ID          string
	Title       string
	Description string
	Text        string
	HTML        bool
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
	Typing(ctx context.Context, chatID int64) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	AnswerInline(ctx context.Context, inlineID string, results []InlineResult, cacheSeconds int) error
}
