// Package telegram connects the bot dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/bot"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const pollTimeoutSeconds = 30

// API is the part of tgbotapi.BotAPI the client uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler consumes platform independent events.
type Handler interface {
	Handle(ctx context.Context, ev bot.Event)
}

type Client struct {
	api API
}

func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	log.Info().Str("bot", api.Self.UserName).Msg("authorized on telegram")

	return NewWithAPI(api), nil
}

func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// Run long-polls for updates until ctx is done. Every update is handled in
// its own goroutine, so a slow provider call holds up only its own chat.
// Run returns after in-flight updates finish.
func (c *Client) Run(ctx context.Context, handler Handler) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds

	updates := c.api.GetUpdatesChan(cfg)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			ev, ok := toEvent(update)
			if !ok {
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Error().Interface("panic", r).Int("update_id", update.UpdateID).Msg("bot handler panicked")
					}
				}()

				handler.Handle(ctx, ev)
			}()
		}
	}
}

func toEvent(update tgbotapi.Update) (bot.Event, bool) {
	switch {
	case update.Message != nil:
		msg := update.Message
		ev := bot.Event{ChatID: msg.Chat.ID, Text: msg.Text}
		if msg.From != nil {
			ev.UserID = msg.From.ID
		}

		switch {
		case msg.IsCommand() && msg.Command() == "start":
			ev.Kind = bot.EventStart
		case msg.Location != nil:
			ev.Kind = bot.EventLocation
			ev.Location = &weather.Coordinate{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
		case msg.Text != "":
			ev.Kind = bot.EventText
		default:
			return bot.Event{}, false
		}
		return ev, true

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		ev := bot.Event{Kind: bot.EventCallback, Text: cb.Data, CallbackID: cb.ID}
		if cb.From != nil {
			ev.UserID = cb.From.ID
			ev.ChatID = cb.From.ID
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			ev.ChatID = cb.Message.Chat.ID
		}
		return ev, true

	case update.InlineQuery != nil:
		q := update.InlineQuery
		ev := bot.Event{Kind: bot.EventInline, Text: q.Query, InlineID: q.ID}
		if q.From != nil {
			ev.UserID = q.From.ID
		}
		return ev, true
	}

	return bot.Event{}, false
}

func (c *Client) Send(_ context.Context, msg bot.Message) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML

	switch {
	case len(msg.Inline) > 0:
		out.ReplyMarkup = inlineKeyboard(msg.Inline)
	case len(msg.Menu) > 0:
		out.ReplyMarkup = replyKeyboard(msg.Menu)
	}

	if _, err := c.api.Send(out); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// SendText sends text without markup, used for reminders.
func (c *Client) SendText(_ context.Context, chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sending text to chat %d: %w", chatID, err)
	}
	return nil
}

func (c *Client) Typing(_ context.Context, chatID int64) error {
	_, err := c.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

func (c *Client) AnswerCallback(_ context.Context, callbackID, text string) error {
	_, err := c.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (c *Client) AnswerInline(_ context.Context, inlineID string, results []bot.InlineResult, cacheSeconds int) error {
	articles := make([]interface{}, 0, len(results))
	for _, r := range results {
		var article tgbotapi.InlineQueryResultArticle
		if r.HTML {
			article = tgbotapi.NewInlineQueryResultArticleHTML(r.ID, r.Title, r.Text)
		} else {
			article = tgbotapi.NewInlineQueryResultArticle(r.ID, r.Title, r.Text)
		}
		article.Description = r.Description
		articles = append(articles, article)
	}

	_, err := c.api.Request(tgbotapi.InlineConfig{
		InlineQueryID: inlineID,
		Results:       articles,
		CacheTime:     cacheSeconds,
	})
	if err != nil {
		return fmt.Errorf("answering inline query %s: %w", inlineID, err)
	}
	return nil
}

func replyKeyboard(rows [][]bot.Button) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			if b.RequestLocation {
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(b.Text))
			} else {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
			}
		}
		keyboard = append(keyboard, tgbotapi.NewKeyboardButtonRow(buttons...))
	}

	markup := tgbotapi.NewReplyKeyboard(keyboard...)
	markup.ResizeKeyboard = true
	return markup
}

func inlineKeyboard(rows [][]bot.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}
