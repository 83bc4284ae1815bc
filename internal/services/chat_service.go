package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swiftaid/internal/models"
	"swiftaid/internal/repositories/interfaces"
	"swiftaid/internal/utils"
	"swiftaid/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService maintains the append-only message log embedded in each
// request. Only the requester and the assigned driver may post; messages are
// returned with the request in insertion order, never re-sorted.
type ChatService interface {
	SendMessage(ctx context.Context, requestID, senderID primitive.ObjectID, text string) (*models.ChatMessage, error)
	GetHistory(ctx context.Context, requestID primitive.ObjectID) ([]models.ChatMessage, error)
}

type chatService struct {
	requestRepo interfaces.RequestRepository
	notifier    Notifier
	logger      *logger.Logger
}

func NewChatService(requestRepo interfaces.RequestRepository, notifier Notifier, log *logger.Logger) ChatService {
	return &chatService{
		requestRepo: requestRepo,
		notifier:    notifier,
		logger:      log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, requestID, senderID primitive.ObjectID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is empty: %w", utils.ErrValidationFailed)
	}
	if len(text) > utils.MaxMessageLength {
		return nil, fmt.Errorf("message text exceeds %d characters: %w", utils.MaxMessageLength, utils.ErrValidationFailed)
	}
	if senderID.IsZero() {
		return nil, fmt.Errorf("no authenticated sender: %w", utils.ErrForbidden)
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsParticipant(senderID) {
		return nil, fmt.Errorf("sender %s is not a participant of request %s: %w", senderID.Hex(), requestID.Hex(), utils.ErrForbidden)
	}

	message := &models.ChatMessage{
		ID:        primitive.NewObjectID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now(),
	}

	if err := s.requestRepo.AppendChatMessage(ctx, requestID, message); err != nil {
		return nil, err
	}

	s.logger.WithRequestID(requestID).WithUserID(senderID).Debug("chat message appended")

	s.notifier.NotifyRequest(requestID, "chat_message", map[string]interface{}{
		"request_id": requestID.Hex(),
		"message_id": message.ID.Hex(),
		"sender_id":  senderID.Hex(),
		"text":       message.Text,
	})

	return message, nil
}

func (s *chatService) GetHistory(ctx context.Context, requestID primitive.ObjectID) ([]models.ChatMessage, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return request.ChatHistory, nil
}
