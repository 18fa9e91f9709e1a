package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const (
	inlineMinQuery     = 2
	inlineShortCache   = 1
	inlineWeatherCache = 300
)

func (h *Handler) handleInline(ctx context.Context, ev Event) {
	results, cacheSeconds := h.inlineResults(ctx, strings.TrimSpace(ev.Text))

	if err := h.sender.AnswerInline(ctx, ev.InlineID, results, cacheSeconds); err != nil {
		log.Warn().Err(err).Str("inline_id", ev.InlineID).Msg("failed to answer inline query")
	}
}

func (h *Handler) inlineResults(ctx context.Context, query string) ([]InlineResult, int) {
	if utf8.RuneCountInString(query) < inlineMinQuery {
		return []InlineResult{{
			ID:          "hint",
			Title:       txtInlineHintTitle,
			Description: txtInlineHintDesc,
			Text:        txtInlineHintText,
		}}, inlineShortCache
	}

	coord, err := h.provider.ResolveCoordinates(ctx, query, 1)
	if err != nil {
		if providers.KindOf(err) == providers.KindNotFound {
			return []InlineResult{{
				ID:          "not_found",
				Title:       txtInlineNotFound,
				Description: "Попробуйте другой запрос: " + query,
				Text:        fmt.Sprintf("Город '%s' не найден. Попробуйте другое название.", query),
			}}, inlineShortCache
		}
		log.Warn().Err(err).Str("query", query).Msg("inline lookup failed")
		return inlineError(), inlineShortCache
	}

	snapshot, err := h.provider.CurrentWeather(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("inline weather failed")
		return inlineError(), inlineShortCache
	}

	name := snapshot.Name
	if name == "" {
		name = query
	}
	temp := weather.FormatNumber(snapshot.Temperature)
	description := describePlain(snapshot.Primary().Description, txtNoDescription)

	return []InlineResult{{
		ID:          uuid.NewString(),
		Title:       "Погода в " + name,
		Description: fmt.Sprintf("%s°C, %s", temp, description),
		Text:        fmt.Sprintf("<b>Погода в %s</b>\n🌡 %s°C\n☁️ %s", html.EscapeString(name), temp, html.EscapeString(description)),
		HTML:        true,
	}}, inlineWeatherCache
}

func inlineError() []InlineResult {
	return []InlineResult{{
		ID:          "error",
		Title:       txtInlineErrorTitle,
		Description: txtInlineErrorDesc,
		Text:        txtInlineErrorText,
	}}
}
