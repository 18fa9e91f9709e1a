package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/db/userstore"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/notifications"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

type action int

const (
	actionNone action = iota
	actionCurrent
	actionForecast
	actionExtended
	actionCompareFirst
	actionCompareSecond
)

// session is the conversational state of one user.
type session struct {
	action    action
	firstCity string
}

type Handler struct {
	provider providers.WeatherProvider
	records  *userstore.Records
	reminder *notifications.Reminder
	sender   Sender

	mu        sync.Mutex
	sessions  map[int64]session
	forecasts map[int64]map[string][]weather.ForecastPoint
}

// NewHandler builds the dispatcher. A nil reminder disables notifications.
func NewHandler(
	provider providers.WeatherProvider,
	records *userstore.Records,
	reminder *notifications.Reminder,
	sender Sender,
) *Handler {
	return &Handler{
		provider:  provider,
		records:   records,
		reminder:  reminder,
		sender:    sender,
		sessions:  make(map[int64]session),
		forecasts: make(map[int64]map[string][]weather.ForecastPoint),
	}
}

// Handle processes one event. It is safe for concurrent use; events of
// different users never block each other on shared state.
func (h *Handler) Handle(ctx context.Context, ev Event) {
	logger := log.With().Str("event", ev.Kind.String()).Int64("user_id", ev.UserID).Logger()
	logger.Debug().Msg("handling bot event")

	if ev.Kind != EventInline && h.reminder != nil {
		if _, err := h.reminder.Check(ctx, ev.UserID, ev.ChatID); err != nil {
			logger.Warn().Err(err).Msg("reminder check failed")
		}
	}

	switch ev.Kind {
	case EventStart:
		h.setSession(ev.UserID, session{})
		h.sendMenu(ctx, ev.ChatID, txtWelcome)
	case EventText:
		h.handleText(ctx, ev)
	case EventLocation:
		h.handleLocation(ctx, ev)
	case EventCallback:
		h.handleCallback(ctx, ev)
	case EventInline:
		h.handleInline(ctx, ev)
	default:
		logger.Warn().Msg("unsupported bot event")
	}
}

func (h *Handler) handleText(ctx context.Context, ev Event) {
	text := strings.TrimSpace(ev.Text)

	switch text {
	case btnCurrent:
		h.setSession(ev.UserID, session{action: actionCurrent})
		h.reply(ctx, ev.ChatID, txtAskCurrentCity)
		return
	case btnForecast:
		h.setSession(ev.UserID, session{action: actionForecast})
		h.reply(ctx, ev.ChatID, txtAskForecastCity)
		return
	case btnCompare:
		h.setSession(ev.UserID, session{action: actionCompareFirst})
		h.reply(ctx, ev.ChatID, txtAskFirstCity)
		return
	case btnExtended:
		h.setSession(ev.UserID, session{action: actionExtended})
		h.reply(ctx, ev.ChatID, txtAskExtendedCity)
		return
	case btnNotifications:
		if h.reminder == nil {
			h.reply(ctx, ev.ChatID, txtNotifUnavailable)
			return
		}
		h.sendNotificationsMenu(ctx, ev.ChatID, ev.UserID)
		return
	case btnLocation:
		h.reply(ctx, ev.ChatID, txtLocationHint)
		return
	}

	state := h.getSession(ev.UserID)

	switch state.action {
	case actionCurrent:
		h.currentByCity(ctx, ev, text)
	case actionForecast:
		h.forecastByCity(ctx, ev, text)
	case actionExtended:
		h.extendedByCity(ctx, ev, text)
	case actionCompareFirst:
		h.setSession(ev.UserID, session{action: actionCompareSecond, firstCity: text})
		h.reply(ctx, ev.ChatID, txtAskSecondCity)
	case actionCompareSecond:
		h.compareCities(ctx, ev.ChatID, state.firstCity, text)
		h.setSession(ev.UserID, session{})
	default:
		h.sendMenu(ctx, ev.ChatID, txtUnknownCommand)
	}
}

func (h *Handler) handleLocation(ctx context.Context, ev Event) {
	if ev.Location == nil {
		h.reply(ctx, ev.ChatID, txtEmptyLocation)
		return
	}
	coord := *ev.Location

	// A shared point replaces the remembered city, reminders then use the
	// name the provider reports for it.
	h.remember(ctx, ev, "", coord)

	switch h.getSession(ev.UserID).action {
	case actionCurrent:
		h.sendCurrentWeather(ctx, ev.ChatID, coord, "")
	case actionForecast:
		h.sendForecastMenu(ctx, ev.ChatID, ev.UserID, coord, "")
	case actionExtended:
		h.sendExtendedData(ctx, ev.ChatID, coord, "")
	default:
		h.reply(ctx, ev.ChatID, txtLocationSaved)
		return
	}

	h.setSession(ev.UserID, session{})
}

func (h *Handler) handleCallback(ctx context.Context, ev Event) {
	data := ev.Text

	switch {
	case strings.HasPrefix(data, cbForecastDay):
		h.answer(ctx, ev.CallbackID, txtLoadingForecast)
		h.sendForecastDay(ctx, ev.ChatID, ev.UserID, strings.TrimPrefix(data, cbForecastDay))
	case data == cbForecastBack:
		h.sendMenu(ctx, ev.ChatID, txtBackToMenu)
		h.answer(ctx, ev.CallbackID, "")
	case h.reminder == nil && (data == cbNotifToggle || strings.HasPrefix(data, cbNotifInterval)):
		h.answer(ctx, ev.CallbackID, txtNotifUnavailable)
	case data == cbNotifToggle:
		if _, err := h.reminder.Toggle(ctx, ev.UserID); err != nil {
			log.Error().Err(err).Int64("user_id", ev.UserID).Msg("failed to toggle reminders")
			h.answer(ctx, ev.CallbackID, txtSaveFailed)
			return
		}
		h.sendNotificationsMenu(ctx, ev.ChatID, ev.UserID)
		h.answer(ctx, ev.CallbackID, txtNotifToggled)
	case strings.HasPrefix(data, cbNotifInterval):
		hours, err := strconv.Atoi(strings.TrimPrefix(data, cbNotifInterval))
		if err != nil {
			h.answer(ctx, ev.CallbackID, "")
			return
		}
		if _, err := h.reminder.SetInterval(ctx, ev.UserID, hours); err != nil {
			log.Error().Err(err).Int64("user_id", ev.UserID).Msg("failed to set reminder interval")
			h.answer(ctx, ev.CallbackID, txtSaveFailed)
			return
		}
		h.sendNotificationsMenu(ctx, ev.ChatID, ev.UserID)
		h.answer(ctx, ev.CallbackID, txtIntervalUpdated)
	default:
		h.answer(ctx, ev.CallbackID, "")
	}
}

func (h *Handler) getSession(userID int64) session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[userID]
}

func (h *Handler) setSession(userID int64, s session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.action == actionNone {
		delete(h.sessions, userID)
		return
	}
	h.sessions[userID] = s
}

// remember stores the user's latest place, used by reminders.
func (h *Handler) remember(ctx context.Context, ev Event, city string, coord weather.Coordinate) {
	_, err := h.records.Update(ctx, ev.UserID, func(rec *userstore.Record) {
		rec.City = city
		rec.SetCoordinate(coord)
		if ev.ChatID != 0 {
			rec.ChatID = ev.ChatID
		}
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", ev.UserID).Msg("failed to save user record")
	}
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	h.send(ctx, Message{ChatID: chatID, Text: text})
}

func (h *Handler) sendMenu(ctx context.Context, chatID int64, text string) {
	h.send(ctx, Message{ChatID: chatID, Text: text, Menu: mainMenu})
}

func (h *Handler) send(ctx context.Context, msg Message) {
	if err := h.sender.Send(ctx, msg); err != nil {
		log.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send message")
	}
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if err := h.sender.AnswerCallback(ctx, callbackID, text); err != nil {
		log.Warn().Err(err).Str("callback_id", callbackID).Msg("failed to answer callback")
	}
}

func (h *Handler) typing(ctx context.Context, chatID int64) {
	if err := h.sender.Typing(ctx, chatID); err != nil {
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("failed to send chat action")
	}
}
