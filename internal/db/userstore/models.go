package userstore

import (
	"time"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

// Notifications holds the reminder settings of one user. A zero
// IntervalHours means the configured default applies.
type Notifications struct {
	Enabled       bool    `json:"enabled"`
	IntervalHours int     `json:"interval_h,omitempty"`
	LastSentTS    float64 `json:"last_sent_ts,omitempty"`
}

// Interval resolves the reminder period, never shorter than one hour.
func (n Notifications) Interval(defaultHours int) time.Duration {
	return time.Duration(n.Hours(defaultHours)) * time.Hour
}

func (n Notifications) Hours(defaultHours int) int {
	hours := n.IntervalHours
	if hours == 0 {
		hours = defaultHours
	}
	if hours < 1 {
		hours = 1
	}
	return hours
}

func (n Notifications) LastSent() time.Time {
	if n.LastSentTS <= 0 {
		return time.Time{}
	}
	sec := int64(n.LastSentTS)
	nsec := int64((n.LastSentTS - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

func (n *Notifications) MarkSent(at time.Time) {
	n.LastSentTS = float64(at.UnixNano()) / float64(time.Second)
}

// Record is everything remembered about a chat user.
type Record struct {
	ChatID        int64         `json:"chat_id,omitempty"`
	City          string        `json:"city,omitempty"`
	Lat           *float64      `json:"lat,omitempty"`
	Lon           *float64      `json:"lon,omitempty"`
	Notifications Notifications `json:"notifications"`
}

func (r Record) Coordinate() (weather.Coordinate, bool) {
	if r.Lat == nil || r.Lon == nil {
		return weather.Coordinate{}, false
	}
	return weather.Coordinate{Lat: *r.Lat, Lon: *r.Lon}, true
}

func (r *Record) SetCoordinate(coord weather.Coordinate) {
	lat, lon := coord.Lat, coord.Lon
	r.Lat = &lat
	r.Lon = &lon
}

type StoredUser struct {
	UserID int64
	Record Record
}

// UserRecord is the relational row backing a Record.
type UserRecord struct {
	UserID               int64     `gorm:"primaryKey;autoIncrement:false"`
	Data                 string    `gorm:"type:text;not null"`
	NotificationsEnabled bool      `gorm:"index:idx_notifications_enabled;not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (UserRecord) TableName() string {
	return "user_records"
}
