package store

import (
	"context"

	"shop-backoffice/internal/models"
)

// InsertAuditLog records an audit entry
func (s *Store) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor, action, entity, entity_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		entry.Actor, entry.Action, entry.Entity, entry.EntityID).
		Scan(&entry.ID, &entry.CreatedAt)
}

// ListAuditLogs retrieves the most recent audit entries
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1", limit)
	return entries, err
}
