package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client 邮件投递网关客户端
// 通过 HTTP webhook 投递，邮件的实际发送由外部服务负责
type Client struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewClient 创建邮件客户端
func NewClient(endpoint, apiKey, from string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InviteMessage 邀请邮件内容
type InviteMessage struct {
	To           string `json:"to"`
	Name         string `json:"name,omitempty"`
	GalleryTitle string `json:"gallery_title"`
	InviteCode   string `json:"invite_code"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type sendPayload struct {
	From     string        `json:"from"`
	Template string        `json:"template"`
	Message  InviteMessage `json:"message"`
}

// SendInvite 投递邀请邮件
func (c *Client) SendInvite(ctx context.Context, msg InviteMessage) error {
	payload := sendPayload{
		From:     c.from,
		Template: "gallery_invite",
		Message:  msg,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail gateway returned status %d", resp.StatusCode)
	}
	return nil
}
