package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"fundhub/internal/common"
	"fundhub/internal/domain/model"
	"fundhub/internal/domain/repository"
)

// fakeStore is an in-memory stand-in for the persistence layer. A single
// mutex plays the role of the store's per-row atomicity, mirroring how the
// real repository serializes contributions on the campaign row.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	campaigns map[string]*model.Campaign
	donations []*model.Donation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*model.User{},
		campaigns: map[string]*model.Campaign{},
	}
}

func (s *fakeStore) addUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

func (s *fakeStore) addCampaign(c model.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = &c
}

func (s *fakeStore) campaignByID(id string) model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.campaigns[id]
	c.ComputeProgress()
	return c
}

func (s *fakeStore) donationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.donations)
}

// applyContribution mutates the campaign under the caller's lock.
func (s *fakeStore) applyContribution(id string, amount int64) (*model.Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok || c.Status != model.CampaignActive {
		return nil, common.ErrCampaignClosed
	}
	c.CurrentAmount += amount
	c.DonorsCount++
	if c.CurrentAmount >= c.GoalAmount {
		c.Status = model.CampaignCompleted
	}
	c.UpdatedAt = time.Now()
	out := *c
	out.ComputeProgress()
	return &out, nil
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, user.Email) {
			return common.ErrConflict
		}
	}
	// Mirrors the insert reading back its generated timestamps.
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	u := *user
	r.store.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	users := []model.User{}
	for _, u := range r.store.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

type fakeCampaignRepo struct{ store *fakeStore }

func (r *fakeCampaignRepo) Create(_ context.Context, c *model.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *c
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.store.campaigns[stored.ID] = &stored
	return nil
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id string) (*model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.campaigns[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *c
	if u, ok := r.store.users[c.CreatorID]; ok {
		out.CreatorName = u.Name
		out.CreatorEmail = u.Email
		out.CreatorAvatar = u.Avatar
	}
	out.ComputeProgress()
	return &out, nil
}

func (r *fakeCampaignRepo) List(_ context.Context, f repository.CampaignFilter) ([]model.Campaign, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	matched := []model.Campaign{}
	for _, c := range r.store.campaigns {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Title), needle) &&
				!strings.Contains(strings.ToLower(c.Description), needle) {
				continue
			}
		}
		out := *c
		out.ComputeProgress()
		matched = append(matched, out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if f.Offset >= total {
		return []model.Campaign{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, c *model.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.campaigns[c.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = c.Title
	stored.Slug = c.Slug
	stored.Description = c.Description
	stored.Category = c.Category
	stored.GoalAmount = c.GoalAmount
	stored.Deadline = c.Deadline
	stored.Image = c.Image
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCampaignRepo) DeleteCascade(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.campaigns[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.store.campaigns, id)
	kept := r.store.donations[:0]
	for _, d := range r.store.donations {
		if d.CampaignID != id {
			kept = append(kept, d)
		}
	}
	r.store.donations = kept
	return nil
}

func (r *fakeCampaignRepo) RecordContribution(_ context.Context, _ *sql.Tx, id string, amount int64) (*model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.applyContribution(id, amount)
}

func (r *fakeCampaignRepo) StatsByCreator(_ context.Context, creatorID string) (*repository.CreatorStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := &repository.CreatorStats{}
	for _, c := range r.store.campaigns {
		if c.CreatorID == creatorID {
			stats.CampaignsCreated++
			stats.TotalRaised += c.CurrentAmount
		}
	}
	return stats, nil
}

type fakeDonationRepo struct{ store *fakeStore }

func (r *fakeDonationRepo) CreateWithContribution(_ context.Context, d *model.Donation) (*model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	campaign, err := r.store.applyContribution(d.CampaignID, d.Amount)
	if err != nil {
		// Nothing committed: the donation is discarded with the rollback.
		return nil, err
	}
	stored := *d
	stored.CreatedAt = time.Now()
	r.store.donations = append(r.store.donations, &stored)
	return campaign, nil
}

func (r *fakeDonationRepo) ListByCampaign(_ context.Context, campaignID string, limit int) ([]model.Donation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	donations := []model.Donation{}
	for i := len(r.store.donations) - 1; i >= 0 && len(donations) < limit; i-- {
		d := r.store.donations[i]
		if d.CampaignID != campaignID {
			continue
		}
		out := *d
		if u, ok := r.store.users[d.DonorID]; ok {
			out.DonorName = u.Name
			out.DonorAvatar = u.Avatar
		}
		donations = append(donations, out)
	}
	return donations, nil
}

func (r *fakeDonationRepo) ListByDonor(_ context.Context, donorID string) ([]model.Donation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	donations := []model.Donation{}
	for i := len(r.store.donations) - 1; i >= 0; i-- {
		d := r.store.donations[i]
		if d.DonorID != donorID {
			continue
		}
		out := *d
		if c, ok := r.store.campaigns[d.CampaignID]; ok {
			out.CampaignTitle = c.Title
			out.CampaignImage = c.Image
		}
		donations = append(donations, out)
	}
	return donations, nil
}

func (r *fakeDonationRepo) StatsByDonor(_ context.Context, donorID string) (*repository.DonorStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := &repository.DonorStats{}
	for _, d := range r.store.donations {
		if d.DonorID == donorID {
			stats.DonationsMade++
			stats.TotalDonated += d.Amount
		}
	}
	return stats, nil
}

type fakeEventQueue struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (q *fakeEventQueue) Enqueue(_ context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *fakeEventQueue) all() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([][]byte{}, q.payloads...)
}
