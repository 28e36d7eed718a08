package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/quickly-spin/wheel"
)

const DefaultRaffleTitle = "My Raffle"

// Request types

type CreateRaffleRequest struct {
	Title        string   `json:"title" validate:"max=120"`
	Participants []string `json:"participants" validate:"max=1000,dive,max=100"`
}

type RenameRaffleRequest struct {
	Title string `json:"title" validate:"required,max=120"`
}

type AddParticipantsRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=1000,dive,max=100"`
}

type AddPrizeRequest struct {
	Name  string              `json:"name" validate:"required,max=120"`
	Value decimal.NullDecimal `json:"value"`
}

type DrawRequest struct {
	Count         int  `json:"count" validate:"required,min=1"`
	RemoveWinners bool `json:"remove_winners"`
}

// Response types

type CreateRaffleResponse struct {
	RaffleID  string        `json:"raffle_id"`
	AdminKey  string        `json:"admin_key"`
	ShareSlug string        `json:"share_slug"`
	ShareURL  string        `json:"share_url"`
	Added     []Participant `json:"added"`
	Skipped   []string      `json:"skipped"`
}

type AddParticipantsResponse struct {
	Added   []Participant `json:"added"`
	Skipped []string      `json:"skipped"` // empty or case-insensitive duplicates
}

type AddPrizeResponse struct {
	Prize Prize `json:"prize"`
}

type DrawResponse struct {
	Draw   Draw         `json:"draw"`
	Reveal RevealTiming `json:"reveal"`
}

type DrawHistoryResponse struct {
	Draws []Draw `json:"draws"`
}

type ResetResponse struct {
	Rotation float64 `json:"rotation"`
}

// RevealTiming tells clients how the host paces the live reveal.
type RevealTiming struct {
	SpinDurationMS int64  `json:"spin_duration_ms"`
	PauseMS        int64  `json:"pause_ms"`
	Generation     uint64 `json:"generation"`
}

// Domain types

type Raffle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ShareSlug string    `json:"share_slug"`
	Rotation  float64   `json:"rotation"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Participant struct {
	ID       string `json:"id"`
	RaffleID string `json:"-"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type Prize struct {
	ID       string              `json:"id"`
	RaffleID string              `json:"-"`
	Name     string              `json:"name"`
	Value    decimal.NullDecimal `json:"value"`
	Position int                 `json:"position"`
}

type DrawWinner struct {
	Position         int     `json:"position"` // 1-indexed reveal order
	Place            string  `json:"place"`    // "1st", "2nd", ...
	ParticipantID    string  `json:"participant_id"`
	ParticipantIndex int     `json:"participant_index"`
	Name             string  `json:"name"`
	TargetRotation   float64 `json:"target_rotation"`
	Prize            *Prize  `json:"prize,omitempty"`
}

type Draw struct {
	ID            string       `json:"id"`
	RaffleID      string       `json:"raffle_id"`
	Requested     int          `json:"requested"`
	SlicesTotal   int          `json:"slices_total"`
	StartRotation float64      `json:"start_rotation"`
	EndRotation   float64      `json:"end_rotation"`
	Winners       []DrawWinner `json:"winners"`
	CreatedAt     time.Time    `json:"created_at"`
}

// RaffleDetails is the admin view of a raffle.
type RaffleDetails struct {
	Raffle       Raffle          `json:"raffle"`
	Participants []Participant   `json:"participants"`
	Prizes       []Prize         `json:"prizes"`
	Segments     []wheel.Segment `json:"segments"`
}

// PublicRaffle is what spectators see through the share slug.
type PublicRaffle struct {
	Title        string          `json:"title"`
	ShareSlug    string          `json:"share_slug"`
	Rotation     float64         `json:"rotation"`
	Participants []Participant   `json:"participants"`
	Prizes       []Prize         `json:"prizes"`
	Segments     []wheel.Segment `json:"segments"`
	LastDraw     *Draw           `json:"last_draw,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
