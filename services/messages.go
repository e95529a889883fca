package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mocardapio-api/apperr"
	"mocardapio-api/authz"
	"mocardapio-api/models"

	"gorm.io/gorm"
)

type MessageInput struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}

type MessageFilter struct {
	With uint `form:"with"`
}

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send stores a message from the caller to in.ReceiverID.
func (s *MessageService) Send(ctx context.Context, a authz.Actor, in MessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Invalid("content", "required")
	}
	if in.ReceiverID == a.UserID() {
		return nil, apperr.Invalid("receiver_id", "cannot message yourself")
	}

	db := s.db.WithContext(ctx)
	var receiver models.User
	if err := db.First(&receiver, in.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", apperr.ErrUserNotFound, in.ReceiverID)
		}
		return nil, fmt.Errorf("load receiver: %w", err)
	}

	msg := models.Message{SenderID: a.UserID(), ReceiverID: receiver.ID, Content: content}
	if err := db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

// List returns the caller's inbox and outbox, oldest first, or only the
// conversation with f.With when set.
func (s *MessageService) List(ctx context.Context, a authz.Actor, f MessageFilter) ([]models.Message, error) {
	me := a.UserID()
	q := s.db.WithContext(ctx)
	if f.With != 0 {
		q = q.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", me, f.With, f.With, me)
	} else {
		q = q.Where("sender_id = ? OR receiver_id = ?", me, me)
	}

	msgs := []models.Message{}
	if err := q.Order("created_at, id").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
