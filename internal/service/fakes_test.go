package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// memStore 内存版存储，实现 service 依赖的全部接口。
// ConsumeAccess 用互斥锁模拟存储层的条件原子更新。
type memStore struct {
	mu          sync.Mutex
	users       map[int64]*model.User
	galleries   map[int64]*model.Gallery
	links       map[int64]*model.ShareLink
	invites     map[int64]*model.Invitation
	photos      map[int64]*model.Photo
	grants      []*model.AccessGrant
	shareTokens map[string]time.Time
	nextID      int64

	// 注入点：Create 调用前返回的错误序列（用于模拟唯一约束冲突）
	createErrs []error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*model.User),
		galleries:   make(map[int64]*model.Gallery),
		links:       make(map[int64]*model.ShareLink),
		invites:     make(map[int64]*model.Invitation),
		photos:      make(map[int64]*model.Photo),
		shareTokens: make(map[string]time.Time),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) popCreateErr() error {
	if len(s.createErrs) == 0 {
		return nil
	}
	err := s.createErrs[0]
	s.createErrs = s.createErrs[1:]
	return err
}

// --- UserStore ---

func (s *memStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	return nil
}

// --- 各实体 Store 拆成独立类型，避免方法名冲突 ---

type memGalleryStore struct{ *memStore }

func (s memGalleryStore) Create(ctx context.Context, g *model.Gallery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	g.CreatedAt = time.Now()
	s.galleries[g.ID] = g
	return nil
}

func (s memGalleryStore) GetByID(ctx context.Context, id int64) (*model.Gallery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.galleries[id], nil
}

func (s memGalleryStore) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Gallery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Gallery, 0)
	for _, g := range s.galleries {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s memGalleryStore) Update(ctx context.Context, g *model.Gallery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.galleries[g.ID] = g
	return nil
}

func (s memGalleryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.galleries, id)
	return nil
}

type memPhotoStore struct{ *memStore }

func (s memPhotoStore) Create(ctx context.Context, p *model.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	p.CreatedAt = time.Now()
	s.photos[p.ID] = p
	return nil
}

func (s memPhotoStore) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photos[id], nil
}

func (s memPhotoStore) ListByGallery(ctx context.Context, galleryID int64) ([]*model.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Photo, 0)
	for _, p := range s.photos {
		if p.GalleryID == galleryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memPhotoStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, id)
	return nil
}

type memLinkStore struct{ *memStore }

func (s memLinkStore) Create(ctx context.Context, link *model.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.popCreateErr(); err != nil {
		return err
	}
	link.ID = s.id()
	link.CreatedAt = time.Now()
	s.links[link.ID] = link
	return nil
}

func (s memLinkStore) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.Token == token {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s memLinkStore) GetByID(ctx context.Context, id int64) (*model.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.links[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (s memLinkStore) ListByGallery(ctx context.Context, galleryID int64) ([]*model.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ShareLink, 0)
	for _, l := range s.links {
		if l.GalleryID == galleryID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s memLinkStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, id)
	return nil
}

type memInviteStore struct{ *memStore }

func (s memInviteStore) Create(ctx context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.popCreateErr(); err != nil {
		return err
	}
	inv.ID = s.id()
	inv.CreatedAt = time.Now()
	s.invites[inv.ID] = inv
	return nil
}

func (s memInviteStore) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invites[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (s memInviteStore) GetByCodeAndGallery(ctx context.Context, code string, galleryID int64) (*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invites {
		if inv.Code == code && inv.GalleryID == galleryID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (s memInviteStore) ListByGallery(ctx context.Context, galleryID int64) ([]*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Invitation, 0)
	for _, inv := range s.invites {
		if inv.GalleryID == galleryID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s memInviteStore) MarkExpired(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[id]
	if !ok {
		return nil
	}
	if inv.Status == model.InviteStatusPending || inv.Status == model.InviteStatusActive {
		inv.Status = model.InviteStatusExpired
	}
	return nil
}

func (s memInviteStore) Revoke(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[id]
	if !ok {
		return false, nil
	}
	if inv.Status == model.InviteStatusPending || inv.Status == model.InviteStatusActive {
		inv.Status = model.InviteStatusRevoked
		return true, nil
	}
	return false, nil
}

// --- UsageLedger ---

type memLedger struct{ *memStore }

// ConsumeAccess 条件原子消费的内存实现：整个检查加递增在一把锁内完成，
// 任一半失败则两个计数都不变
func (s memLedger) ConsumeAccess(ctx context.Context, req repository.ConsumeRequest) (*repository.ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &repository.ConsumeResult{}

	link, ok := s.links[req.ShareLinkID]
	if !ok || (link.MaxViews != nil && link.ViewCount >= *link.MaxViews) {
		result.Denial = repository.DenialShareLimit
		return result, nil
	}

	if req.InvitationID != nil {
		inv, ok := s.invites[*req.InvitationID]
		if !ok ||
			(inv.Status != model.InviteStatusPending && inv.Status != model.InviteStatusActive) ||
			(inv.MaxUsage != nil && inv.UsageCount >= *inv.MaxUsage) {
			result.Denial = repository.DenialInviteLimit
			return result, nil
		}

		inv.UsageCount++
		if inv.UsedAt == nil {
			now := time.Now()
			inv.UsedAt = &now
		}
		if inv.Status == model.InviteStatusPending {
			inv.Status = model.InviteStatusActive
		}
		if inv.MaxUsage != nil && inv.UsageCount >= *inv.MaxUsage {
			inv.Status = model.InviteStatusExpired
		}
		result.InviteUsageCount = inv.UsageCount
		result.InviteStatus = inv.Status
	}

	link.ViewCount++
	result.LinkViewCount = link.ViewCount
	result.Granted = true
	return result, nil
}

// --- AuditStore ---

type memAudit struct{ *memStore }

func (s memAudit) RecordGrant(ctx context.Context, grant *model.AccessGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, grant)
	return nil
}

func (s memAudit) CountInvitations(ctx context.Context, galleryID int64) (*repository.InviteCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := &repository.InviteCounts{ByType: make(map[string]int64)}
	for _, inv := range s.invites {
		if inv.GalleryID != galleryID {
			continue
		}
		counts.Total++
		counts.TotalUsage += int64(inv.UsageCount)
		counts.ByType[inv.Type]++
		switch inv.Status {
		case model.InviteStatusActive:
			counts.Active++
		case model.InviteStatusExpired:
			counts.Expired++
		case model.InviteStatusRevoked:
			counts.Revoked++
		case model.InviteStatusPending:
			counts.Pending++
		}
	}
	return counts, nil
}

func (s memAudit) DailyGrants(ctx context.Context, galleryID int64, since time.Time) ([]model.DailyGrantCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDay := make(map[string]int64)
	for _, g := range s.grants {
		if g.GalleryID == galleryID && !g.GrantedAt.Before(since) {
			byDay[g.GrantedAt.Format("2006-01-02")]++
		}
	}
	out := make([]model.DailyGrantCount, 0, len(byDay))
	for day, n := range byDay {
		out = append(out, model.DailyGrantCount{Date: day, Grants: n})
	}
	return out, nil
}

func (s memAudit) PermissionStats(ctx context.Context, galleryID int64) (*model.PermissionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.PermissionStats{}
	for _, inv := range s.invites {
		if inv.GalleryID != galleryID {
			continue
		}
		if inv.Permissions.CanView {
			stats.CanView++
		}
		if inv.Permissions.CanFavorite {
			stats.CanFavorite++
		}
		if inv.Permissions.CanComment {
			stats.CanComment++
		}
		if inv.Permissions.CanDownload {
			stats.CanDownload++
		}
		if inv.Permissions.CanRequestPurchase {
			stats.CanRequestPurchase++
		}
	}
	return stats, nil
}

// --- TokenCache ---

type memCache struct{ *memStore }

func (s memCache) SetRefreshToken(userID int64, token string, ttl time.Duration) error {
	return nil
}

func (s memCache) GetUserIDByRefreshToken(token string) (int64, error) {
	return 0, nil
}

func (s memCache) DeleteRefreshToken(token string) error {
	return nil
}

func (s memCache) SetShareAccessToken(shareToken, accessToken string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shareTokens[shareToken+":"+accessToken] = time.Now().Add(ttl)
	return nil
}

func (s memCache) VerifyShareAccessToken(ctx context.Context, shareToken, accessToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.shareTokens[shareToken+":"+accessToken]
	return ok && time.Now().Before(expiry), nil
}

// --- 测试夹具 ---

type fixture struct {
	store     *memStore
	galleries memGalleryStore
	photos    memPhotoStore
	links     memLinkStore
	invites   memInviteStore
	ledger    memLedger
	audit     memAudit
	cache     memCache
}

func newFixture() *fixture {
	s := newMemStore()
	return &fixture{
		store:     s,
		galleries: memGalleryStore{s},
		photos:    memPhotoStore{s},
		links:     memLinkStore{s},
		invites:   memInviteStore{s},
		ledger:    memLedger{s},
		audit:     memAudit{s},
		cache:     memCache{s},
	}
}

// testAccessConfig 测试用默认配置
func testAccessConfig() config.AccessConfig {
	return config.AccessConfig{
		TokenBytes:              16,
		InviteCodeLength:        8,
		PermissionPolicy:        model.PermissionPolicyIntersect,
		PasswordTokenTTLMinutes: 5,
		ResolveTimeoutSeconds:   5,
	}
}

func (f *fixture) accessService(cfg config.AccessConfig) *AccessService {
	return NewAccessService(f.links, f.galleries, f.invites, f.photos, f.ledger, f.audit, f.cache, cfg)
}

func (f *fixture) addGallery(g *model.Gallery) *model.Gallery {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	g.ID = f.store.id()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	f.store.galleries[g.ID] = g
	return g
}

func (f *fixture) addLink(l *model.ShareLink) *model.ShareLink {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	l.ID = f.store.id()
	f.store.links[l.ID] = l
	return l
}

func (f *fixture) addInvite(inv *model.Invitation) *model.Invitation {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	inv.ID = f.store.id()
	f.store.invites[inv.ID] = inv
	return inv
}

func (f *fixture) linkByID(id int64) *model.ShareLink {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.links[id]
}

func (f *fixture) inviteByID(id int64) *model.Invitation {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.invites[id]
}
