package api

import (
	"math/big"
	"time"

	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"
)

type APIError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e APIError) Error() string {
	return e.Message
}

// Amount is a token amount in base units plus its display form.
type Amount struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type StatsResponse struct {
	Total          Amount  `json:"total"`
	Released       Amount  `json:"released"`
	Locked         Amount  `json:"locked"`
	ReleasePercent float64 `json:"release_percent"`
}

type SummaryResponse struct {
	Total         Amount `json:"total"`
	Released      Amount `json:"released"`
	Releasable    Amount `json:"releasable"`
	Locked        Amount `json:"locked"`
	ScheduleCount string `json:"schedule_count"`
}

type ProgressResponse struct {
	Total      Amount `json:"total"`
	Released   Amount `json:"released"`
	Releasable Amount `json:"releasable"`
	Locked     Amount `json:"locked"`
}

type ScheduleResponse struct {
	Id               string           `json:"id"`
	Index            int              `json:"index"`
	Category         string           `json:"category"`
	VestingType      string           `json:"vesting_type"`
	Status           string           `json:"status"`
	Progress         ProgressResponse `json:"progress"`
	Estimated        bool             `json:"estimated"`
	ReleasePercent   float64          `json:"release_percent"`
	TimePercent      float64          `json:"time_percent"`
	RemainingSeconds int64            `json:"remaining_seconds"`
	Remaining        string           `json:"remaining"`
	StartAt          time.Time        `json:"start_at"`
	CliffEndAt       time.Time        `json:"cliff_end_at"`
	EndAt            time.Time        `json:"end_at"`
	CanRelease       bool             `json:"can_release"`
}

type BeneficiaryResponse struct {
	Beneficiary string             `json:"beneficiary"`
	Summary     SummaryResponse    `json:"summary"`
	Schedules   []ScheduleResponse `json:"schedules"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type SchedulesResponse struct {
	Beneficiary string             `json:"beneficiary"`
	Category    string             `json:"category,omitempty"`
	Schedules   []ScheduleResponse `json:"schedules"`
}

type ReleaseRequest struct {
	Amount string `json:"amount"`
}

type ReleaseResponse struct {
	TxHash     string `json:"tx_hash"`
	ScheduleId string `json:"schedule_id"`
	Amount     Amount `json:"amount"`
}

type presenter struct {
	symbol string
}

func (p presenter) amount(v *big.Int) Amount {
	if v == nil {
		v = new(big.Int)
	}
	formatted := model.FormatTokenAmount(v, model.DisplayDecimals)
	if p.symbol != "" {
		formatted += " " + p.symbol
	}
	return Amount{Raw: v.String(), Formatted: formatted}
}

func (p presenter) progress(v *model.VestingProgress) ProgressResponse {
	return ProgressResponse{
		Total:      p.amount(v.TotalAmount),
		Released:   p.amount(v.ReleasedAmount),
		Releasable: p.amount(v.ReleasableAmount),
		Locked:     p.amount(v.LockedAmount),
	}
}

func (p presenter) card(c *vesting.Card) ScheduleResponse {
	return ScheduleResponse{
		Id:               c.Id.Hex(),
		Index:            c.Index,
		Category:         c.Category.String(),
		VestingType:      c.Type.String(),
		Status:           string(c.Status),
		Progress:         p.progress(&c.Progress),
		Estimated:        c.Estimated,
		ReleasePercent:   c.ReleasePercent,
		TimePercent:      c.TimePercent,
		RemainingSeconds: c.RemainingSeconds,
		Remaining:        c.Remaining,
		StartAt:          c.StartAt,
		CliffEndAt:       c.CliffEndAt,
		EndAt:            c.EndAt,
		CanRelease:       c.CanRelease,
	}
}

func (p presenter) cards(cards []*vesting.Card) []ScheduleResponse {
	res := make([]ScheduleResponse, 0, len(cards))
	for _, c := range cards {
		res = append(res, p.card(c))
	}
	return res
}

func (p presenter) summary(s *model.BeneficiarySummary) SummaryResponse {
	count := "0"
	if s.ScheduleCount != nil {
		count = s.ScheduleCount.String()
	}
	return SummaryResponse{
		Total:         p.amount(s.TotalAmount),
		Released:      p.amount(s.ReleasedAmount),
		Releasable:    p.amount(s.ReleasableAmount),
		Locked:        p.amount(s.LockedAmount),
		ScheduleCount: count,
	}
}
