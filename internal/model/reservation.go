package model

import "time"

// ReservationStatus は予約のステータスを表します
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// DateTimeLocalLayout は予約フォームの日時入力の書式です (タイムゾーンなし)
const DateTimeLocalLayout = "2006-01-02T15:04"

type Reservation struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Guests   int               `json:"guests"`
	DateTime time.Time         `json:"datetime"`
	Phone    string            `json:"phone"`
	Requests string            `json:"requests,omitempty"`
	Status   ReservationStatus `json:"status"` // pending, confirmed, cancelled
}

func (r Reservation) EntityID() int64 { return r.ID }

func (r Reservation) WithID(id int64) Reservation {
	r.ID = id
	return r
}

// Clone はコピーを返します
func (r Reservation) Clone() Reservation { return r }

// NewReservation は受付直後の予約を作成します
func NewReservation(name string, guests int, dateTime time.Time, phone, requests string) Reservation {
	return Reservation{
		Name:     name,
		Guests:   guests,
		DateTime: dateTime,
		Phone:    phone,
		Requests: requests,
		Status:   ReservationStatusPending,
	}
}

// ParseReservationDateTime はフォームの日時入力を指定のロケーションで解釈します
func ParseReservationDateTime(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLocalLayout, value, loc)
}
