package notify

import (
	"context"
	"fmt"
)

// CommentPoster posts a comment on a forum post.
type CommentPoster interface {
	CreateComment(ctx context.Context, postID string, content string) (string, error)
}

// MoltbookSender delivers notifications as comments on a designated forum
// post, typically the adjudicator's pinned status thread.
type MoltbookSender struct {
	poster CommentPoster
	postID string
}

// NewMoltbookSender creates a MoltbookSender that comments on the given post.
func NewMoltbookSender(poster CommentPoster, postID string) *MoltbookSender {
	return &MoltbookSender{poster: poster, postID: postID}
}

// Send posts the notification as a markdown comment.
func (m *MoltbookSender) Send(ctx context.Context, title, message string) error {
	content := fmt.Sprintf("**%s**\n\n%s", title, message)
	if _, err := m.poster.CreateComment(ctx, m.postID, content); err != nil {
		return fmt.Errorf("moltbook: post notification: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (m *MoltbookSender) Name() string {
	return "moltbook"
}
