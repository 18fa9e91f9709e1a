package bot

import (
	"errors"
	"fmt"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/airquality"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
)

const (
	btnCurrent       = "Текущая погода"
	btnForecast      = "Прогноз на 5 дней"
	btnLocation      = "Моя геолокация"
	btnCompare       = "Сравнить города"
	btnExtended      = "Расширенные данные"
	btnNotifications = "Уведомления"
	btnBack          = "Назад"

	cbForecastDay   = "forecast_day|"
	cbForecastBack  = "forecast_back"
	cbNotifToggle   = "notif_toggle"
	cbNotifInterval = "notif_interval|"

	txtWelcome          = "Привет! Я погодный бот.\nВыберите действие в меню ниже."
	txtAskCurrentCity   = "Введите город (например, Москва) или отправьте геолокацию кнопкой «Моя геолокация»."
	txtAskForecastCity  = "Введите город для прогноза или отправьте геолокацию."
	txtAskExtendedCity  = "Введите город для расширенного анализа (погода + качество воздуха) или отправьте геолокацию."
	txtAskFirstCity     = "Введите первый город:"
	txtAskSecondCity    = "Введите второй город:"
	txtLocationHint     = "Нажмите кнопку «Моя геолокация» (с иконкой скрепки/локации) и отправьте location."
	txtUnknownCommand   = "Не понял команду. Выберите действие из меню."
	txtEmptyLocation    = "Пустая геолокация. Пожалуйста, отправьте location."
	txtLocationSaved    = "Геолокация сохранена."
	txtCityNotFound     = "Город не найден."
	txtCompareNotFound  = "Один из городов не найден. Попробуйте снова."
	txtBackToMenu       = "Возвращаю в главное меню."
	txtLoadingForecast  = "Загружаю прогноз..."
	txtNotifToggled     = "Статус уведомлений изменен."
	txtIntervalUpdated  = "Интервал обновлен."
	txtNoForecast       = "Нет данных прогноза."
	txtNoDayForecast    = "Нет данных прогноза для выбранного дня."
	txtWeatherFailed    = "Не удалось получить погоду."
	txtForecastFailed   = "Не удалось получить прогноз."
	txtExtendedFailed   = "Не удалось получить расширенные данные."
	txtCompareFailed    = "Не удалось сравнить города."
	txtSaveFailed       = "Не удалось сохранить настройки. Попробуйте позже."
	txtNotifUnavailable = "Уведомления недоступны."
	txtNoDescription    = "нет описания"
	txtNoData           = "нет данных"
	txtUnknownCity      = "Неизвестный город"
	txtSelectedPoint    = "выбранной точки"
	txtNoAirComponents  = "Данные о компонентах недоступны"
	txtInlineHintTitle  = "Введите название города"
	txtInlineHintDesc   = "Начните вводить название города для поиска погоды"
	txtInlineHintText   = "Введите название города (минимум 2 символа)"
	txtInlineNotFound   = "Город не найден"
	txtInlineErrorTitle = "Ошибка получения данных"
	txtInlineErrorDesc  = "Не удалось получить данные о погоде"
	txtInlineErrorText  = "Не удалось получить данные о погоде. Попробуйте позже."
)

// mainMenu is the persistent reply keyboard.
var mainMenu = [][]Button{
	{{Text: btnCurrent}, {Text: btnForecast}},
	{{Text: btnLocation, RequestLocation: true}, {Text: btnCompare}},
	{{Text: btnExtended}, {Text: btnNotifications}},
}

// errorText turns a provider failure into a message for the chat. Errors
// that did not come from the provider get fallback.
func errorText(err error, fallback string) string {
	var perr *providers.Error
	if !errors.As(err, &perr) {
		return fallback
	}

	switch perr.Kind {
	case providers.KindNotFound:
		return txtCityNotFound
	case providers.KindNetwork:
		return "Сетевая ошибка. Проверьте подключение и повторите позже."
	case providers.KindRateLimited:
		return "Слишком много запросов к погодному API. Повторите позже."
	case providers.KindService:
		return fmt.Sprintf("Ошибка сервиса погоды (%d).", perr.StatusCode)
	case providers.KindMalformed:
		return "Некорректный ответ от сервиса погоды."
	default:
		return fallback
	}
}

func tierText(tier airquality.Tier) (status, summary string) {
	switch tier {
	case airquality.TierGood:
		return "Хорошее", "Качество воздуха в норме."
	case airquality.TierModerate:
		return "Умеренное", "Допустимо для большинства людей."
	case airquality.TierElevated:
		return "Повышенное загрязнение", "Чувствительным группам стоит сократить время на улице."
	case airquality.TierHigh:
		return "Высокое загрязнение", "Рекомендуется ограничить активность на открытом воздухе."
	default:
		return "Нет данных", "Не удалось получить компоненты качества воздуха."
	}
}

func bandText(band airquality.Band) string {
	switch band {
	case airquality.BandNormal:
		return "✅ Норма"
	case airquality.BandModerate:
		return "⚠️ Умеренно"
	case airquality.BandPoor:
		return "❌ Плохо"
	default:
		return "—"
	}
}
