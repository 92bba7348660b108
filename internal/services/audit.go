package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/dto"
	"github.com/NovaGest/crm_service/internal/interfaces"
	"github.com/NovaGest/crm_service/internal/repository"
)

// AuditSink records lifecycle events without ever failing the caller. Writes
// happen off the request goroutine; failures are logged and swallowed.
type AuditSink interface {
	Record(event dto.AuditEvent)
}

type auditSink struct {
	repo     repository.AuditRepository
	producer interfaces.ProducerHandler
}

func NewAuditSink(repo repository.AuditRepository, producer interfaces.ProducerHandler) AuditSink {
	return &auditSink{repo: repo, producer: producer}
}

func (a *auditSink) Record(event dto.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	go func() {
		entry := domain.AuditLog{
			UserID:   event.UserID,
			TenantID: event.TenantID,
			Action:   event.Action,
			Entity:   event.Entity,
			EntityID: event.EntityID,
		}
		if event.IP != "" {
			entry.IP = &event.IP
		}
		if event.UserAgent != "" {
			entry.UserAgent = &event.UserAgent
		}
		if len(event.Metadata) > 0 {
			if b, err := json.Marshal(event.Metadata); err == nil {
				meta := string(b)
				entry.Metadata = &meta
			}
		}

		if err := a.repo.Create(&entry); err != nil {
			log.Printf("audit write failed (%s): %v", event.Action, err)
		}

		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("audit marshal failed (%s): %v", event.Action, err)
			return
		}
		if err := a.producer.PublishMessage([]byte(event.Action), payload); err != nil {
			log.Printf("audit publish failed (%s): %v", event.Action, err)
		}
	}()
}
