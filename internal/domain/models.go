package domain

import "time"

// Currency валюта ценового лимита комнаты.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
)

// Language язык интерфейса комнаты.
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
)

// Room описывает комнату обмена подарками.
type Room struct {
	ID               string    `json:"id"`
	Name             string    `json:"room_name"`
	ParticipantNames []string  `json:"participant_names"`
	PriceLimit       float64   `json:"price_limit"`
	Currency         Currency  `json:"currency"`
	Language         Language  `json:"language"`
	IsDrawn          bool      `json:"is_drawn"`
	AdminToken       string    `json:"admin_token"`
	OwnerID          string    `json:"owner_id,omitempty"`
	CreatedAt        time.Time `json:"created_date"`
}

// Assignment связывает дарителя с получателем подарка.
type Assignment struct {
	ID               string   `json:"id"`
	RoomID           string   `json:"room_id"`
	ParticipantName  string   `json:"participant_name"`
	DrawnName        string   `json:"drawn_name"`
	ParticipantToken string   `json:"participant_token"`
	Wishes           []string `json:"wishes"`
	HasViewed        bool     `json:"has_viewed"`
}

// RoomWithAssignments используется в ответах администратору комнаты.
type RoomWithAssignments struct {
	Room        Room         `json:"room"`
	Assignments []Assignment `json:"assignments"`
}

// ParticipantView то, что видит участник по своей ссылке.
type ParticipantView struct {
	Assignment             Assignment `json:"assignment"`
	DrawnParticipantWishes []string   `json:"drawn_participant_wishes"`
	RoomName               string     `json:"room_name"`
	PriceLimit             float64    `json:"price_limit"`
	Currency               Currency   `json:"currency"`
	Language               Language   `json:"language"`
}

// RoomPatch содержит изменяемые поля комнаты. nil означает "не менять".
type RoomPatch struct {
	Name       *string
	PriceLimit *float64
}

// Empty сообщает, что патч ничего не меняет.
func (p RoomPatch) Empty() bool {
	return p.Name == nil && p.PriceLimit == nil
}

// NewRoom параметры создания комнаты.
type NewRoom struct {
	Name             string
	ParticipantNames []string
	PriceLimit       float64
	Currency         Currency
	Language         Language
	OwnerID          string
}
