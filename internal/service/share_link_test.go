package service

import (
	"context"
	"testing"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateShareLink(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())

	resp, err := svc.Create(context.Background(), gallery.ID, 3, &model.CreateShareLinkRequest{
		Name:     "client preview",
		CanView:  true,
		MaxViews: intPtr(50),
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("token not generated")
	}
	// 16 字节熵的十六进制编码
	if len(resp.Token) != 32 {
		t.Errorf("token length = %d, want 32", len(resp.Token))
	}
	if resp.MaxViews == nil || *resp.MaxViews != 50 {
		t.Errorf("max views = %v, want 50", resp.MaxViews)
	}

	link := f.linkByID(resp.ID)
	if link.PasswordHash == "" {
		t.Fatalf("password not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte("secret")); err != nil {
		t.Errorf("stored hash does not match password")
	}
}

func TestCreateShareLinkDefaultsToView(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())

	resp, err := svc.Create(context.Background(), gallery.ID, 3, &model.CreateShareLinkRequest{Name: "bare"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !f.linkByID(resp.ID).Permissions.CanView {
		t.Errorf("empty permissions should default to view")
	}
}

func TestCreateShareLinkOwnership(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, gallery.ID, 99, &model.CreateShareLinkRequest{}); err != ErrNotOwner {
		t.Errorf("foreign owner: err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Create(ctx, 4321, 3, &model.CreateShareLinkRequest{}); err != ErrGalleryNotFound {
		t.Errorf("unknown gallery: err = %v, want ErrGalleryNotFound", err)
	}
}

func TestCreateShareLinkCollisionExhausted(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	dup := &pq.Error{Code: "23505"}
	f.store.createErrs = []error{dup, dup, dup, dup}
	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())

	if _, err := svc.Create(context.Background(), gallery.ID, 3, &model.CreateShareLinkRequest{}); err != ErrTokenCollision {
		t.Errorf("err = %v, want ErrTokenCollision", err)
	}
}

// 未知 token 和密码错误必须是同一个响应，防枚举
func TestVerifyPasswordAntiEnumeration(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	link := f.addLink(&model.ShareLink{
		GalleryID:    gallery.ID,
		Token:        "tok-verify",
		PasswordHash: hashOf(t, "secret"),
		Permissions:  model.PermissionSet{CanView: true},
	})

	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	ctx := context.Background()

	unknown, err := svc.VerifyPassword(ctx, "no-such-token", "whatever")
	if err != nil {
		t.Fatalf("unknown token: %v", err)
	}
	wrong, err := svc.VerifyPassword(ctx, "tok-verify", "bad")
	if err != nil {
		t.Fatalf("wrong password: %v", err)
	}
	if unknown.Verified || wrong.Verified {
		t.Errorf("failed verification must not report verified")
	}
	if unknown.AccessToken != "" || wrong.AccessToken != "" {
		t.Errorf("failed verification must not issue tokens")
	}

	// 验证不消耗浏览次数
	if got := f.linkByID(link.ID).ViewCount; got != 0 {
		t.Errorf("verify consumed views: count = %d", got)
	}
}

func TestVerifyPasswordIssuesToken(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	f.addLink(&model.ShareLink{
		GalleryID:    gallery.ID,
		Token:        "tok-issue",
		PasswordHash: hashOf(t, "secret"),
		Permissions:  model.PermissionSet{CanView: true},
	})

	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	resp, err := svc.VerifyPassword(context.Background(), "tok-issue", "secret")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !resp.Verified || resp.AccessToken == "" || resp.ExpiresAt == nil {
		t.Fatalf("expected token issuance, got %+v", resp)
	}

	ok, err := f.cache.VerifyShareAccessToken(context.Background(), "tok-issue", resp.AccessToken)
	if err != nil || !ok {
		t.Errorf("issued token not cached (ok=%v err=%v)", ok, err)
	}
}

// 相册级密码兜底到链接验证
func TestVerifyPasswordGalleryLevel(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{
		OwnerID:         3,
		Published:       true,
		RequirePassword: true,
		PasswordHash:    hashOf(t, "gal-pass"),
	})
	f.addLink(&model.ShareLink{GalleryID: gallery.ID, Token: "tok-gal",
		Permissions: model.PermissionSet{CanView: true}})

	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	resp, err := svc.VerifyPassword(context.Background(), "tok-gal", "gal-pass")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !resp.Verified {
		t.Errorf("gallery password should verify")
	}
}

func TestVerifyPasswordOpenLink(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	f.addLink(&model.ShareLink{GalleryID: gallery.ID, Token: "tok-open",
		Permissions: model.PermissionSet{CanView: true}})

	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	resp, err := svc.VerifyPassword(context.Background(), "tok-open", "")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !resp.Verified || resp.AccessToken != "" {
		t.Errorf("open link should verify without issuing a token, got %+v", resp)
	}
}

func TestDeleteShareLinkOwnership(t *testing.T) {
	f := newFixture()
	gallery := f.addGallery(&model.Gallery{OwnerID: 3, Published: true})
	link := f.addLink(&model.ShareLink{GalleryID: gallery.ID, Token: "tok-del",
		Permissions: model.PermissionSet{CanView: true}})

	svc := NewShareLinkService(f.links, f.galleries, f.cache, testAccessConfig())
	ctx := context.Background()

	if err := svc.Delete(ctx, link.ID, 99); err != ErrNotOwner {
		t.Errorf("foreign owner: err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, link.ID, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.linkByID(link.ID) != nil {
		t.Errorf("link not deleted")
	}
	if err := svc.Delete(ctx, link.ID, 3); err != ErrShareLinkNotFound {
		t.Errorf("deleted twice: err = %v, want ErrShareLinkNotFound", err)
	}
}
