// Package audit records field-level change history inside the same
// unit of work as the mutation it describes; its failure rolls the
// whole operation back rather than being swallowed.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"renovest/internal/models"
	"renovest/pkg/utils"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) LogCreate(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, entity any) error {
	payload, err := json.Marshal(map[string]any{"created": entity})
	if err != nil {
		return utils.ErrorHandler(err, "failed to marshal audit payload")
	}
	return s.insert(ctx, tx, userID, models.AuditActionCreate, entityName, entityID, payload)
}

// LogUpdate stores only the fields whose value actually changed
// between the two snapshots.
func (s *Service) LogUpdate(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, before, after any) error {
	diff, err := fieldDiff(before, after)
	if err != nil {
		return utils.ErrorHandler(err, "failed to diff audit snapshots")
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		return utils.ErrorHandler(err, "failed to marshal audit payload")
	}
	return s.insert(ctx, tx, userID, models.AuditActionUpdate, entityName, entityID, payload)
}

func (s *Service) LogDelete(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, entity any) error {
	payload, err := json.Marshal(map[string]any{"deleted": entity})
	if err != nil {
		return utils.ErrorHandler(err, "failed to marshal audit payload")
	}
	return s.insert(ctx, tx, userID, models.AuditActionDelete, entityName, entityID, payload)
}

func (s *Service) insert(ctx context.Context, tx *sql.Tx, userID int, action models.AuditAction, entityName string, entityID int, payload []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (user_id, action, entity_name, entity_id, changes)
		VALUES (?, ?, ?, ?, ?)`,
		userID, action, entityName, entityID, string(payload))
	if err != nil {
		return utils.ErrorHandler(err, "failed to insert audit log")
	}
	return nil
}

type change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// fieldDiff flattens both snapshots through JSON and keeps the keys
// whose values differ.
func fieldDiff(before, after any) (map[string]change, error) {
	var beforeMap, afterMap map[string]any

	b, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &beforeMap); err != nil {
		return nil, err
	}

	a, err := json.Marshal(after)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(a, &afterMap); err != nil {
		return nil, err
	}

	diff := make(map[string]change)
	for key, afterVal := range afterMap {
		beforeVal, ok := beforeMap[key]
		if !ok || !jsonEqual(beforeVal, afterVal) {
			diff[key] = change{From: beforeVal, To: afterVal}
		}
	}
	for key, beforeVal := range beforeMap {
		if _, ok := afterMap[key]; !ok {
			diff[key] = change{From: beforeVal, To: nil}
		}
	}
	return diff, nil
}

func jsonEqual(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
