package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/airquality"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/localize"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/notifications"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const forecastDays = 5

// componentLines are the pollutants shown in the extended view.
var componentLines = []struct {
	pollutant weather.Pollutant
	label     string
}{
	{weather.PollutantPM25, "Мелкие частицы PM2.5"},
	{weather.PollutantPM10, "Крупные частицы PM10"},
	{weather.PollutantNO2, "Диоксид азота (NO₂)"},
	{weather.PollutantO3, "Озон (O₃)"},
}

func (h *Handler) currentByCity(ctx context.Context, ev Event, city string) {
	coord, ok := h.resolve(ctx, ev.ChatID, city)
	if !ok {
		return
	}

	h.remember(ctx, ev, city, coord)
	h.sendCurrentWeather(ctx, ev.ChatID, coord, city)
	h.setSession(ev.UserID, session{})
}

func (h *Handler) forecastByCity(ctx context.Context, ev Event, city string) {
	coord, ok := h.resolve(ctx, ev.ChatID, city)
	if !ok {
		return
	}

	h.remember(ctx, ev, city, coord)
	h.sendForecastMenu(ctx, ev.ChatID, ev.UserID, coord, city)
	h.setSession(ev.UserID, session{})
}

func (h *Handler) extendedByCity(ctx context.Context, ev Event, city string) {
	coord, ok := h.resolve(ctx, ev.ChatID, city)
	if !ok {
		return
	}

	h.sendExtendedData(ctx, ev.ChatID, coord, city)
	h.setSession(ev.UserID, session{})
}

// resolve geocodes city and reports the failure to the chat. The session
// is left as is so the user can try another name.
func (h *Handler) resolve(ctx context.Context, chatID int64, city string) (weather.Coordinate, bool) {
	h.typing(ctx, chatID)

	coord, err := h.provider.ResolveCoordinates(ctx, city, 1)
	if err != nil {
		log.Info().Err(err).Str("city", city).Msg("city lookup failed")
		h.reply(ctx, chatID, errorText(err, txtCityNotFound))
		return weather.Coordinate{}, false
	}
	return coord, true
}

func (h *Handler) sendCurrentWeather(ctx context.Context, chatID int64, coord weather.Coordinate, city string) {
	h.typing(ctx, chatID)

	snapshot, err := h.provider.CurrentWeather(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.String()).Msg("current weather failed")
		h.reply(ctx, chatID, errorText(err, txtWeatherFailed))
		return
	}

	text := fmt.Sprintf(
		"<b>Текущая погода: %s</b>\n"+
			"🌡 Температура: %s°C\n"+
			"🤗 Ощущается как: %s°C\n"+
			"💧 Влажность: %s%%\n"+
			"🌬 Ветер: %s м/с\n"+
			"☁️ Состояние: %s",
		html.EscapeString(placeName(city, snapshot)),
		weather.FormatNumber(snapshot.Temperature),
		weather.FormatNumber(snapshot.FeelsLike),
		weather.FormatNumber(snapshot.Humidity),
		weather.FormatNumber(snapshot.WindSpeed),
		describe(snapshot.Primary().Description, txtNoDescription),
	)
	h.reply(ctx, chatID, text)
}

func (h *Handler) sendForecastMenu(ctx context.Context, chatID, userID int64, coord weather.Coordinate, city string) {
	h.typing(ctx, chatID)

	points, err := h.provider.Forecast(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.String()).Msg("forecast failed")
		h.reply(ctx, chatID, errorText(err, txtForecastFailed))
		return
	}

	groups := weather.GroupByDay(points)
	if len(groups) == 0 {
		h.reply(ctx, chatID, txtNoForecast)
		return
	}

	byDay := make(map[string][]weather.ForecastPoint, len(groups))
	for _, g := range groups {
		byDay[g.Date] = g.Points
	}
	h.mu.Lock()
	h.forecasts[userID] = byDay
	h.mu.Unlock()

	if len(groups) > forecastDays {
		groups = groups[:forecastDays]
	}

	title := txtSelectedPoint
	if city != "" {
		title = html.EscapeString(city)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Прогноз на 5 дней: %s</b>\n", title)

	buttons := make([][]Button, 0, len(groups)+1)
	for _, g := range groups {
		summary := weather.SummarizeDay(g.Date, g.Points)
		label := weather.FormatDayLabel(g.Date)

		fmt.Fprintf(&b, "%s <b>%s</b>\n   %s° / %s°C - %s\n",
			weather.ConditionEmoji(summary.Code),
			label,
			weather.FormatFixed(summary.TempMin),
			weather.FormatFixed(summary.TempMax),
			describe(summary.Description, txtNoDescription),
		)
		buttons = append(buttons, []Button{{Text: label, Data: cbForecastDay + g.Date}})
	}
	b.WriteString("\nВыберите день для детального прогноза:")
	buttons = append(buttons, []Button{{Text: btnBack, Data: cbForecastBack}})

	h.send(ctx, Message{ChatID: chatID, Text: b.String(), Inline: buttons})
}

func (h *Handler) sendForecastDay(ctx context.Context, chatID, userID int64, day string) {
	h.typing(ctx, chatID)

	h.mu.Lock()
	points := h.forecasts[userID][day]
	h.mu.Unlock()

	if len(points) == 0 {
		h.reply(ctx, chatID, txtNoDayForecast)
		return
	}

	lines := make([]string, 0, len(points)+1)
	lines = append(lines, fmt.Sprintf("<b>Детальный прогноз на %s</b>\n", weather.FormatDayLabel(day)))
	for _, p := range points {
		lines = append(lines, fmt.Sprintf("%s %s: %s°C - %s",
			weather.ConditionEmoji(conditionCode(p.Condition)),
			p.Time.UTC().Format("15:04"),
			weather.FormatNumber(p.Temperature),
			describe(p.Condition.Description, txtNoDescription),
		))
	}

	h.send(ctx, Message{
		ChatID: chatID,
		Text:   strings.Join(lines, "\n"),
		Inline: [][]Button{{{Text: btnBack, Data: cbForecastBack}}},
	})
}

func (h *Handler) sendExtendedData(ctx context.Context, chatID int64, coord weather.Coordinate, city string) {
	h.typing(ctx, chatID)

	snapshot, err := h.provider.CurrentWeather(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.String()).Msg("extended data failed")
		h.reply(ctx, chatID, errorText(err, txtExtendedFailed))
		return
	}

	components, err := h.provider.AirPollution(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.String()).Msg("air pollution unavailable")
	}
	assessment := airquality.Score(components, true)
	status, summary := tierText(assessment.Tier)

	details := txtNoAirComponents
	if len(assessment.Details) > 0 {
		lines := make([]string, 0, len(componentLines))
		for _, c := range componentLines {
			value := assessment.Details[c.pollutant]
			lines = append(lines, fmt.Sprintf("• %s: %.2f мкг/м³ - %s",
				c.label, value, bandText(airquality.EvaluateComponent(c.pollutant, value))))
		}
		details = strings.Join(lines, "\n")
	}

	text := fmt.Sprintf(
		"<b>Расширенные данные: %s</b>\n"+
			"🌡 Температура: %s°C\n"+
			"☁️ Погода: %s\n\n"+
			"<b>Качество воздуха</b>\n"+
			"Статус: %s\n"+
			"%s\n\n"+
			"<b>Детали загрязнения:</b>\n"+
			"%s",
		html.EscapeString(placeName(city, snapshot)),
		weather.FormatNumber(snapshot.Temperature),
		describe(snapshot.Primary().Description, txtNoDescription),
		status,
		summary,
		details,
	)
	h.reply(ctx, chatID, text)
}

func (h *Handler) compareCities(ctx context.Context, chatID int64, first, second string) {
	h.typing(ctx, chatID)

	cities := [2]string{first, second}
	var snapshots [2]weather.WeatherSnapshot

	for i, city := range cities {
		coord, err := h.provider.ResolveCoordinates(ctx, city, 1)
		if err != nil {
			log.Info().Err(err).Str("city", city).Msg("compare lookup failed")
			if providers.KindOf(err) == providers.KindNotFound {
				h.reply(ctx, chatID, txtCompareNotFound)
			} else {
				h.reply(ctx, chatID, errorText(err, txtCompareFailed))
			}
			return
		}

		snapshots[i], err = h.provider.CurrentWeather(ctx, coord)
		if err != nil {
			log.Warn().Err(err).Str("city", city).Msg("compare weather failed")
			h.reply(ctx, chatID, errorText(err, txtCompareFailed))
			return
		}
	}

	blocks := make([]string, 0, len(cities))
	for i, city := range cities {
		blocks = append(blocks, fmt.Sprintf("<b>%s</b>\n🌡 Температура: %s°C\n☁️ Состояние: %s",
			html.EscapeString(city),
			weather.FormatNumber(snapshots[i].Temperature),
			describe(snapshots[i].Primary().Description, txtNoData),
		))
	}

	h.reply(ctx, chatID, "<b>Сравнение городов</b>\n\n"+strings.Join(blocks, "\n\n"))
}

func (h *Handler) sendNotificationsMenu(ctx context.Context, chatID, userID int64) {
	enabled, hours := h.reminder.Settings(ctx, userID)

	status, toggle := "выключены", "Включить"
	if enabled {
		status, toggle = "включены", "Выключить"
	}

	buttons := [][]Button{{{Text: toggle, Data: cbNotifToggle}}}
	for _, choice := range notifications.IntervalChoices {
		buttons = append(buttons, []Button{{
			Text: fmt.Sprintf("%d ч", choice),
			Data: fmt.Sprintf("%s%d", cbNotifInterval, choice),
		}})
	}

	h.send(ctx, Message{
		ChatID: chatID,
		Text:   fmt.Sprintf("<b>Уведомления</b>\nСтатус: %s\nИнтервал: %d ч", status, hours),
		Inline: buttons,
	})
}

// describe localizes a provider description for an HTML message.
func describe(description, fallback string) string {
	return html.EscapeString(describePlain(description, fallback))
}

func describePlain(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return localize.Capitalize(localize.Localize(description))
}

func placeName(city string, snapshot weather.WeatherSnapshot) string {
	if city != "" {
		return city
	}
	if snapshot.Name != "" {
		return snapshot.Name
	}
	return txtUnknownCity
}

func conditionCode(c weather.Condition) int {
	if c.ID == 0 {
		return weather.DefaultConditionCode
	}
	return c.ID
}
