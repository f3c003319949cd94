package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SeedData 在 debug 模式下插入测试数据
func SeedData(db *sql.DB) error {
	log.Println("Debug模式: 开始插入种子数据...")

	// 插入测试摄影师账号
	if err := seedUsers(db); err != nil {
		return err
	}

	// 插入测试相册、分享链接和邀请
	if err := seedGalleries(db); err != nil {
		return err
	}

	log.Println("Debug模式: 种子数据插入完成")
	return nil
}

// seedUsers 插入测试摄影师账号
func seedUsers(db *sql.DB) error {
	users := []struct {
		username string
		password string
		realName string
		email    string
	}{
		{"studio", "studio123", "测试摄影师", "studio@example.com"},
		{"assistant", "assistant123", "测试助理", "assistant@example.com"},
	}

	for _, u := range users {
		// 检查用户是否已存在
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", u.username).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		// 生成密码哈希
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		// 插入用户
		_, err = db.Exec(`
			INSERT INTO users (username, password_hash, real_name, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, u.username, string(hash), u.realName, u.email, time.Now())
		if err != nil {
			return err
		}
		log.Printf("Debug模式: 创建用户 %s (密码: %s)", u.username, u.password)
	}

	return nil
}

// seedGalleries 插入测试相册及配套分享链接和邀请
func seedGalleries(db *sql.DB) error {
	// 获取 studio 用户 ID
	var ownerID int64
	err := db.QueryRow("SELECT id FROM users WHERE username = 'studio'").Scan(&ownerID)
	if err != nil {
		return err
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM galleries WHERE owner_id = $1)", ownerID).Scan(&exists)
	if err != nil || exists {
		return err
	}

	galleries := []struct {
		title       string
		description string
		inviteOnly  bool
		password    string
	}{
		{"测试相册1-公开分享", "仅凭链接即可访问", false, ""},
		{"测试相册2-密码保护", "需要输入密码", false, "gallery123"},
		{"测试相册3-仅限邀请", "需要邀请码", true, ""},
	}

	now := time.Now()
	for i, g := range galleries {
		var passwordHash string
		if g.password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(g.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			passwordHash = string(hash)
		}

		var galleryID int64
		err := db.QueryRow(`
			INSERT INTO galleries (owner_id, title, description, require_password, password_hash,
				invite_only, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
			RETURNING id
		`, ownerID, g.title, g.description, g.password != "", passwordHash, g.inviteOnly, now).Scan(&galleryID)
		if err != nil {
			return err
		}

		// 每个相册配一条分享链接
		token := fmt.Sprintf("seed-share-token-%03d", i+1)
		_, err = db.Exec(`
			INSERT INTO share_links (gallery_id, token, name, can_view, can_download, can_comment, created_at)
			VALUES ($1, $2, '种子分享链接', TRUE, TRUE, FALSE, $3)
		`, galleryID, token, now)
		if err != nil {
			return err
		}

		// 仅限邀请的相册配一个多次使用邀请
		if g.inviteOnly {
			_, err = db.Exec(`
				INSERT INTO invitations (gallery_id, code, type, status, description,
					can_view, can_favorite, can_comment, can_download, can_request_purchase,
					max_usage, usage_count, created_at)
				VALUES ($1, 'SEEDINVITE', 'multi_use', 'active', '种子邀请',
					TRUE, TRUE, TRUE, FALSE, FALSE, 10, 0, $2)
			`, galleryID, now)
			if err != nil {
				return err
			}
		}

		log.Printf("Debug模式: 创建相册 %s (share token: %s)", g.title, token)
	}

	return nil
}
