package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"pharmaduty-go/pkg/logger"
)

// Recorder is what other domains depend on. Recording never fails the calling action.
type Recorder interface {
	Record(ctx context.Context, actorID uint, action, entity string, entityID uint, details map[string]any)
}

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) Record(ctx context.Context, actorID uint, action, entity string, entityID uint, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		s.log.InternalError("audit.record: marshal details failed", err, "action", action)
		payload = []byte("{}")
	}

	entry := Entry{
		ActorID:  optionalID(actorID),
		Action:   action,
		Entity:   entity,
		EntityID: optionalID(entityID),
		Details:  datatypes.JSON(payload),
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.log.InternalError("audit.record: write failed", err, "action", action, "entity", entity, "entity_id", entityID)
		return
	}
	s.log.Info("audit.record: "+action, "actor_id", actorID, "entity", entity, "entity_id", entityID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, int64, error) {
	return s.repo.List(ctx, filter)
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

type nopRecorder struct{}

// NopRecorder discards entries.
func NopRecorder() Recorder {
	return nopRecorder{}
}

func (nopRecorder) Record(context.Context, uint, string, string, uint, map[string]any) {}
