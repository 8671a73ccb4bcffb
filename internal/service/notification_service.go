package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pkv-backend/internal/model"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/pkg/events"
	pktNats "pkv-backend/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

const notificationConsumer = "notif-service-worker"

// DefaultNotificationTypes is the registry seeded by the migrate command.
var DefaultNotificationTypes = []model.NotificationType{
	{Code: events.TypeUserRegistered, DisplayName: "Neue Registrierung", Template: "{username} ({email}) hat sich registriert.", TargetType: "ADMIN", Priority: "LOW"},
	{Code: events.TypeContractReady, DisplayName: "Vertrag bereit", Template: "Ihr Vertrag {file_name} wurde verarbeitet ({page_count} Seiten).", TargetType: "SELF", Priority: "MEDIUM"},
	{Code: events.TypeContractFailed, DisplayName: "Vertrag fehlerhaft", Template: "Ihr Vertrag {file_name} konnte nicht gelesen werden.", TargetType: "SELF", Priority: "HIGH"},
	{Code: events.TypeContactMessageCreated, DisplayName: "Neue Kontaktanfrage", Template: "{full_name} ({email}) hat eine Nachricht gesendet.", TargetType: "ADMIN", Priority: "MEDIUM"},
	{Code: events.TypeSystemBroadcast, DisplayName: "Systemmitteilung", Template: "{message}", TargetType: "BROADCAST", Priority: "HIGH"},
}

type NotificationService struct {
	repo       contract.NotificationRepository
	subscriber EventSubscriber
	publisher  events.Publisher
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	repo contract.NotificationRepository,
	sub EventSubscriber,
	pub events.Publisher,
	delivery NotificationDelivery,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		publisher:  pub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event bus configured, notifications disabled", nil)
		return nil
	}
	if err := s.subscriber.Subscribe(pktNats.SubjectPrefix+">", notificationConsumer, s.HandleEvent); err != nil {
		return err
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"subject": pktNats.SubjectPrefix + ">"})
	return nil
}

// SeedNotificationTypes upserts the default registry.
func (s *NotificationService) SeedNotificationTypes(ctx context.Context) error {
	for i := range DefaultNotificationTypes {
		t := DefaultNotificationTypes[i]
		t.IsActive = true
		t.Channels = datatypes.JSON(`["web"]`)
		if err := s.repo.UpsertNotificationType(ctx, &t); err != nil {
			return fmt.Errorf("seed notification type %s: %w", t.Code, err)
		}
	}
	return nil
}

// HandleEvent turns one bus event into stored and pushed notifications.
// A returned error makes the bus redeliver the event.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil {
		s.logger.Debug("NotificationService", "No notification configured for event", map[string]interface{}{"type": typeCode})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	// Broadcasts are push only; storing one row per user does not scale.
	if config.TargetType == "BROADCAST" {
		if s.delivery != nil {
			s.delivery.Broadcast(s.buildNotification(uuid.Nil, config, event))
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", "Error resolving recipients", map[string]interface{}{
			"type":  typeCode,
			"error": err.Error(),
		})
		return err
	}

	for _, userID := range recipients {
		notif := s.buildNotification(userID, config, event)
		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", "Error saving notification", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}
	}

	s.logger.Info("NotificationService", "Event delivered", map[string]interface{}{
		"type":       typeCode,
		"target":     config.TargetType,
		"recipients": len(recipients),
	})
	return nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	switch config.TargetType {
	case "SELF":
		uidStr, _ := event.Payload()["user_id"].(string)
		uid, err := uuid.Parse(uidStr)
		if err != nil {
			s.logger.Warn("NotificationService", "SELF notification without user_id", map[string]interface{}{"type": config.Code})
			return nil, nil
		}
		return []uuid.UUID{uid}, nil
	case "ADMIN":
		return s.repo.FindUserIDsByRole(ctx, "admin")
	case "ROLE":
		return s.repo.FindUserIDsByRole(ctx, config.TargetRole)
	}
	return nil, nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()
	msg := renderTemplate(config.Template, payload)

	title := config.DisplayName
	if t, ok := payload["title"].(string); ok && t != "" {
		title = t
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Title:      title,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
}

func renderTemplate(template string, payload map[string]interface{}) string {
	for k, v := range payload {
		template = strings.ReplaceAll(template, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return template
}

// Broadcast publishes a system message to every connected user.
func (s *NotificationService) Broadcast(ctx context.Context, title, message string) error {
	return s.publisher.Publish(ctx, events.SystemBroadcast(title, message))
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.FindByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
