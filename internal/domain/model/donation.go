package model

import (
	"time"
)

// Donation is immutable once created; the only delete path is the cascade
// when its campaign is deleted.
type Donation struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	DonorID       string    `json:"donor_id,omitempty"`
	DonorName     string    `json:"donor_name,omitempty"`
	DonorAvatar   string    `json:"donor_avatar,omitempty"`
	CampaignID    string    `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title,omitempty"`
	CampaignImage string    `json:"campaign_image,omitempty"`
	Message       string    `json:"message"`
	Anonymous     bool      `json:"anonymous"`
	CreatedAt     time.Time `json:"created_at"`
}

// MaskDonor hides the donor's identity on anonymous donations before they
// leave a public listing. The donor id is cleared too; leaving it would let
// readers correlate an anonymous donor across donations.
func (d *Donation) MaskDonor() {
	if d.Anonymous {
		d.DonorID = ""
		d.DonorName = "Anonymous"
		d.DonorAvatar = ""
	}
}
