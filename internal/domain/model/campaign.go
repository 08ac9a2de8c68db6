package model

import (
	"time"
)

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Categories is the closed set a campaign must belong to.
var Categories = []string{
	"Technology",
	"Education",
	"Healthcare",
	"Art",
	"Environment",
	"Business",
	"Social",
	"Other",
}

func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func ValidCampaignStatus(s CampaignStatus) bool {
	return s == CampaignActive || s == CampaignCompleted || s == CampaignCancelled
}

// Campaign amounts are integral minor currency units.
type Campaign struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	GoalAmount    int64          `json:"goal_amount"`
	CurrentAmount int64          `json:"current_amount"`
	Image         string         `json:"image"`
	CreatorID     string         `json:"creator_id"`
	CreatorName   string         `json:"creator_name,omitempty"`
	CreatorEmail  string         `json:"creator_email,omitempty"`
	CreatorAvatar string         `json:"creator_avatar,omitempty"`
	Deadline      time.Time      `json:"deadline"`
	Status        CampaignStatus `json:"status"`
	DonorsCount   int            `json:"donors_count"`
	Progress      float64        `json:"progress"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ComputeProgress derives the clamped funding percentage. It is never
// persisted; repositories call this after every read.
func (c *Campaign) ComputeProgress() {
	if c.GoalAmount <= 0 {
		c.Progress = 0
		return
	}
	p := float64(c.CurrentAmount) / float64(c.GoalAmount) * 100
	if p > 100 {
		p = 100
	}
	c.Progress = p
}
