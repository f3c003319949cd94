package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// 拒绝原因：组合消费中哪一半没有通过条件检查
type ConsumeDenial int

const (
	DenialNone        ConsumeDenial = iota
	DenialShareLimit                // 分享链接浏览次数已达上限
	DenialInviteLimit               // 邀请已达使用上限或处于终态
)

// ConsumeRequest 一次访问要消费的计数
type ConsumeRequest struct {
	ShareLinkID  int64
	InvitationID *int64 // nil 表示本次访问未使用邀请
}

// ConsumeResult 消费结果
type ConsumeResult struct {
	Granted          bool
	Denial           ConsumeDenial
	LinkViewCount    int
	InviteUsageCount int
	InviteStatus     string
}

// LedgerRepository 用量账本：限次计数的唯一写入方
//
// 计数递增必须是存储层的条件原子更新（增量只在不超过上限时生效），
// 读出来再比较再写回的方式在并发下会超发，不允许出现在任何调用方。
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ConsumeAccess 原子消费一次访问
//
// 链接浏览计数和邀请使用计数在同一个事务里消费，要么都成功要么都不变，
// 不存在只记了一半的中间状态。任一条件更新未命中行即拒绝并回滚。
func (r *LedgerRepository) ConsumeAccess(ctx context.Context, req ConsumeRequest) (*ConsumeResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &ConsumeResult{}

	// 分享链接：只有未达上限才会命中行
	linkQuery := `
		UPDATE share_links
		SET view_count = view_count + 1
		WHERE id = $1 AND (max_views IS NULL OR view_count < max_views)
		RETURNING view_count
	`
	err = tx.QueryRowContext(ctx, linkQuery, req.ShareLinkID).Scan(&result.LinkViewCount)
	if err == sql.ErrNoRows {
		result.Denial = DenialShareLimit
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	// 邀请：终态或已达上限都不会命中行；首次使用时记录 used_at 并激活 pending
	if req.InvitationID != nil {
		inviteQuery := `
			UPDATE invitations
			SET usage_count = usage_count + 1,
				used_at = COALESCE(used_at, NOW()),
				status = CASE WHEN status = 'pending' THEN 'active' ELSE status END
			WHERE id = $1
				AND status IN ('pending', 'active')
				AND (max_usage IS NULL OR usage_count < max_usage)
			RETURNING usage_count, max_usage, status
		`
		var maxUsage sql.NullInt64
		err = tx.QueryRowContext(ctx, inviteQuery, *req.InvitationID).
			Scan(&result.InviteUsageCount, &maxUsage, &result.InviteStatus)
		if err == sql.ErrNoRows {
			result.Denial = DenialInviteLimit
			return result, nil
		}
		if err != nil {
			return nil, err
		}

		// 本次消费用完最后一个名额：同一事务内置为终态
		if maxUsage.Valid && int64(result.InviteUsageCount) >= maxUsage.Int64 {
			expireQuery := `UPDATE invitations SET status = 'expired' WHERE id = $1 AND status = 'active'`
			if _, err := tx.ExecContext(ctx, expireQuery, *req.InvitationID); err != nil {
				return nil, err
			}
			result.InviteStatus = "expired"
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("提交消费事务失败: %w", err)
	}

	result.Granted = true
	return result, nil
}

// IsUniqueViolation 是否为唯一约束冲突（token / code 碰撞）
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// IsSerializationFailure 是否为可重试的事务冲突
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure / deadlock_detected
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
