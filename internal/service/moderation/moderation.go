// internal/service/moderation/moderation.go
package moderation

import (
	"context"

	"khidma-service/internal/domain/message"
	"khidma-service/internal/domain/realtime"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"
	"khidma-service/internal/websocket"

	"go.uber.org/zap"
)

// removedPlaceholder replaces the body of moderated-away messages so the
// thread keeps its shape without exposing the content.
const removedPlaceholder = "[removed by moderator]"

type ModerationService struct {
	messageRepo *postgres.MessageRepository
	jobRepo     *postgres.JobRepository
	hub         *websocket.Hub
	logger      *zap.Logger
}

func NewModerationService(
	messageRepo *postgres.MessageRepository,
	jobRepo *postgres.JobRepository,
	hub *websocket.Hub,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		messageRepo: messageRepo,
		jobRepo:     jobRepo,
		hub:         hub,
		logger:      logger,
	}
}

// ========== Messaging ==========

// SendMessage posts into the job conversation between its client and the
// given consultant, creating the conversation on first contact.
func (s *ModerationService) SendMessage(ctx context.Context, senderID, jobID, consultantID int64, req *message.SendMessageRequest) (*message.Message, error) {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if senderID != j.ClientID && senderID != consultantID {
		return nil, xerrors.ErrForbidden
	}

	conv, err := s.messageRepo.FindOrCreateConversation(ctx, jobID, j.ClientID, consultantID)
	if err != nil {
		return nil, err
	}

	m := &message.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
		Moderation:     message.ModerationNone,
	}
	if err := s.messageRepo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Thread returns a conversation's messages for one of its participants.
// Removed messages come back with their body blanked.
func (s *ModerationService) Thread(ctx context.Context, callerID int64, isAdmin bool, conversationID int64, limit int) ([]*message.Message, error) {
	conv, err := s.messageRepo.FindConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && callerID != conv.ClientID && callerID != conv.ConsultantID {
		return nil, xerrors.ErrForbidden
	}

	if limit < 1 || limit > 200 {
		limit = 50
	}

	msgs, err := s.messageRepo.ListByConversation(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		for _, m := range msgs {
			if m.Moderation == message.ModerationRemoved {
				m.Body = removedPlaceholder
			}
		}
	}

	return msgs, nil
}

// Flag reports a message for admin review. Participants flag messages in
// their own conversations.
func (s *ModerationService) Flag(ctx context.Context, callerID, messageID int64, req *message.FlagMessageRequest) error {
	m, err := s.messageRepo.FindMessage(ctx, messageID)
	if err != nil {
		return err
	}

	conv, err := s.messageRepo.FindConversation(ctx, m.ConversationID)
	if err != nil {
		return err
	}
	if callerID != conv.ClientID && callerID != conv.ConsultantID {
		return xerrors.ErrForbidden
	}
	if m.SenderID == callerID {
		return xerrors.ErrInvalidInput
	}

	if err := s.messageRepo.Flag(ctx, messageID, callerID, req.Reason); err != nil {
		return err
	}

	s.hub.Publish(realtime.EventMessageFlagged, map[string]interface{}{
		"message_id":      messageID,
		"conversation_id": m.ConversationID,
		"reason":          req.Reason,
	})

	s.logger.Info("message flagged",
		zap.Int64("message_id", messageID),
		zap.Int64("flagged_by", callerID),
	)
	return nil
}

// ========== Admin review ==========

// Queue returns the flagged messages awaiting review
func (s *ModerationService) Queue(ctx context.Context, filters *message.QueueFilters) (*message.QueueResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	msgs, total, err := s.messageRepo.ListFlagged(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &message.QueueResponse{
		Messages:   msgs,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Resolve approves or removes a flagged message
func (s *ModerationService) Resolve(ctx context.Context, moderatorID, messageID int64, approve bool) error {
	status := message.ModerationRemoved
	if approve {
		status = message.ModerationApproved
	}

	if err := s.messageRepo.Moderate(ctx, messageID, moderatorID, status); err != nil {
		return err
	}

	s.logger.Info("flag resolved",
		zap.Int64("message_id", messageID),
		zap.Int64("moderator_id", moderatorID),
		zap.String("decision", string(status)),
	)
	return nil
}
