package service

import (
	"context"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lockMaterial locks the case owning a material line and re-reads the line
// under that lock.
func lockMaterial(ctx context.Context, tx repository.Store, materialID uuid.UUID) (*domain.SurgeryCaseMaterial, error) {
	material, err := tx.FindMaterialByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.LockCase(ctx, material.CaseID); err != nil {
		return nil, err
	}
	return tx.FindMaterialByID(ctx, materialID)
}

// lockBackingCase takes the case lock for a reservation that backs a
// material line, before any lot row is touched.
func lockBackingCase(ctx context.Context, tx repository.Store, r *domain.Reservation) error {
	if r.CaseMaterialID == nil {
		return nil
	}
	_, err := lockMaterial(ctx, tx, *r.CaseMaterialID)
	return err
}

// applyMaterialUsage moves a committed reservation's quantity into the used
// total of the case line it backs.
func applyMaterialUsage(ctx context.Context, tx repository.Store, r *domain.Reservation) ([]events.Event, error) {
	if r.CaseMaterialID == nil {
		return nil, nil
	}
	material, err := tx.FindMaterialByID(ctx, *r.CaseMaterialID)
	if err != nil {
		return nil, err
	}
	material.AddUsed(r.ReservedQty)
	if err := tx.UpdateMaterial(ctx, material); err != nil {
		return nil, err
	}
	return recomputeCaseStatus(ctx, tx, material.CaseID)
}

// applyMaterialRelease takes a cancelled reservation's quantity off its case line
func applyMaterialRelease(ctx context.Context, tx repository.Store, r *domain.Reservation) ([]events.Event, error) {
	if r.CaseMaterialID == nil {
		return nil, nil
	}
	material, err := tx.FindMaterialByID(ctx, *r.CaseMaterialID)
	if err != nil {
		return nil, err
	}
	material.RemoveReserved(r.ReservedQty)
	if err := tx.UpdateMaterial(ctx, material); err != nil {
		return nil, err
	}
	return recomputeCaseStatus(ctx, tx, material.CaseID)
}

// recomputeCaseStatus derives the case's material status from its stored
// lines and persists it when it changed.
func recomputeCaseStatus(ctx context.Context, tx repository.Store, caseID uuid.UUID) ([]events.Event, error) {
	surgeryCase, err := tx.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	materials, err := tx.FindMaterialsByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	current := domain.CalculateMaterialStatus(materials)
	if current == surgeryCase.MaterialStatus {
		return nil, nil
	}

	previous := surgeryCase.MaterialStatus
	surgeryCase.MaterialStatus = current
	surgeryCase.UpdatedAt = time.Now().UTC()
	if err := tx.UpdateCase(ctx, surgeryCase); err != nil {
		return nil, err
	}

	return []events.Event{events.CaseMaterialStatusChangedEvent{
		EventID:    uuid.New(),
		CaseID:     surgeryCase.ID,
		CaseNumber: surgeryCase.CaseNumber,
		Previous:   previous,
		Current:    current,
		OccurredAt: surgeryCase.UpdatedAt,
	}}, nil
}

// publishAll sends events after their transaction committed. Publish errors
// are logged; the state change already happened.
func publishAll(ctx context.Context, publisher events.EventPublisher, logger *zap.Logger, pending []events.Event) {
	for _, event := range pending {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.ID().String()),
				zap.Error(err),
			)
		}
	}
}
