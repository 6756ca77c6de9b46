package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/domain"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaterialRequest is one line requested when a case is created
type MaterialRequest struct {
	ProductID   uuid.UUID
	RequiredQty decimal.Decimal
}

// Planner manages surgery cases and reserves their materials
type Planner struct {
	store        repository.Store
	reservations *ReservationManager
	publisher    events.EventPublisher
	logger       *zap.Logger
}

func NewPlanner(store repository.Store, reservations *ReservationManager, publisher events.EventPublisher, logger *zap.Logger) *Planner {
	return &Planner{
		store:        store,
		reservations: reservations,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateCase stores a planned case together with its material lines
func (p *Planner) CreateCase(ctx context.Context, details domain.CaseDetails, materials []MaterialRequest) (*domain.SurgeryCase, error) {
	surgeryCase, err := domain.NewSurgeryCase(details)
	if err != nil {
		return nil, err
	}

	err = p.store.Transact(ctx, func(tx repository.Store) error {
		for _, req := range materials {
			if _, err := tx.FindProductByID(ctx, req.ProductID); err != nil {
				return err
			}
			material, err := domain.NewSurgeryCaseMaterial(surgeryCase.ID, req.ProductID, req.RequiredQty)
			if err != nil {
				return err
			}
			surgeryCase.Materials = append(surgeryCase.Materials, *material)
		}
		return tx.CreateCase(ctx, surgeryCase)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Surgery case created",
		zap.String("case_id", surgeryCase.ID.String()),
		zap.String("case_number", surgeryCase.CaseNumber),
		zap.Int("materials", len(surgeryCase.Materials)),
	)
	return surgeryCase, nil
}

// AddMaterial appends a pending line to an open case
func (p *Planner) AddMaterial(ctx context.Context, caseID uuid.UUID, req MaterialRequest) (*domain.SurgeryCaseMaterial, error) {
	var (
		material *domain.SurgeryCaseMaterial
		pending  []events.Event
	)
	err := p.store.Transact(ctx, func(tx repository.Store) error {
		surgeryCase, err := tx.LockCase(ctx, caseID)
		if err != nil {
			return err
		}
		if err := requireOpen(surgeryCase); err != nil {
			return err
		}
		if _, err := tx.FindProductByID(ctx, req.ProductID); err != nil {
			return err
		}

		material, err = domain.NewSurgeryCaseMaterial(caseID, req.ProductID, req.RequiredQty)
		if err != nil {
			return err
		}
		if err := tx.InsertMaterial(ctx, material); err != nil {
			return err
		}
		pending, err = recomputeCaseStatus(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishAll(ctx, p.publisher, p.logger, pending)
	return material, nil
}

// GetCase returns a case with its material lines
func (p *Planner) GetCase(ctx context.Context, caseID uuid.UUID) (*domain.SurgeryCase, error) {
	surgeryCase, err := p.store.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	surgeryCase.Materials, err = p.store.FindMaterialsByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return surgeryCase, nil
}

// ListCases returns cases matching filter, without material lines
func (p *Planner) ListCases(ctx context.Context, filter repository.CaseFilter) ([]domain.SurgeryCase, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.InvalidArgumentf("date range end is before its start")
	}
	return p.store.ListCases(ctx, filter)
}

// UpdateCaseStatus sets the workflow status of a case. Completed and
// cancelled cases are final.
func (p *Planner) UpdateCaseStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus) (*domain.SurgeryCase, error) {
	if _, err := domain.ParseCaseStatus(string(status)); err != nil {
		return nil, err
	}

	var surgeryCase *domain.SurgeryCase
	err := p.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		surgeryCase, err = tx.LockCase(ctx, caseID)
		if err != nil {
			return err
		}
		if err := requireOpen(surgeryCase); err != nil {
			return err
		}
		surgeryCase.Status = status
		surgeryCase.UpdatedAt = time.Now().UTC()
		return tx.UpdateCase(ctx, surgeryCase)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Surgery case status updated",
		zap.String("case_id", caseID.String()),
		zap.String("status", string(status)),
	)
	return surgeryCase, nil
}

// ReserveMaterialsForCase runs FEFO reservation for every pending line of
// a case and returns the resulting material status. Shortfalls leave a
// line pending; they are reflected in the status rather than returned.
func (p *Planner) ReserveMaterialsForCase(ctx context.Context, caseID uuid.UUID, reservedBy string) (domain.MaterialStatus, error) {
	var (
		status  domain.MaterialStatus
		pending []events.Event
	)
	err := p.store.Transact(ctx, func(tx repository.Store) error {
		surgeryCase, err := tx.LockCase(ctx, caseID)
		if err != nil {
			return err
		}
		if err := requireOpen(surgeryCase); err != nil {
			return err
		}
		materials, err := tx.FindMaterialsByCase(ctx, caseID)
		if err != nil {
			return err
		}

		surgeryDate := surgeryCase.SurgeryDate
		for i := range materials {
			material := &materials[i]
			if !material.NeedsReservation() {
				continue
			}

			materialID := material.ID
			rc := domain.ReservationContext{
				ReservedBy:     reservedBy,
				ReservedFor:    fmt.Sprintf("case %s", surgeryCase.CaseNumber),
				PatientName:    surgeryCase.PatientName,
				SurgeryDate:    &surgeryDate,
				CaseMaterialID: &materialID,
			}
			result, reserveEvents, err := p.reservations.reserveFEFO(ctx, tx, material.ProductID, material.RemainingNeeded(), rc)
			if err != nil {
				return err
			}
			pending = append(pending, reserveEvents...)
			if len(result.Reservations) == 0 {
				continue
			}

			ids := make([]uuid.UUID, len(result.Reservations))
			for j := range result.Reservations {
				ids[j] = result.Reservations[j].ID
			}
			material.AddReserved(result.Reserved, ids...)
			if err := tx.UpdateMaterial(ctx, material); err != nil {
				return err
			}
		}

		caseEvents, err := recomputeCaseStatus(ctx, tx, caseID)
		if err != nil {
			return err
		}
		pending = append(pending, caseEvents...)
		status = domain.CalculateMaterialStatus(materials)
		return nil
	})
	if err != nil {
		return "", err
	}

	p.logger.Info("Case materials reserved",
		zap.String("case_id", caseID.String()),
		zap.String("material_status", string(status)),
	)
	publishAll(ctx, p.publisher, p.logger, pending)
	return status, nil
}

// CalculateCaseMaterialStatus recomputes the material status from the
// stored lines and writes it back when it drifted.
func (p *Planner) CalculateCaseMaterialStatus(ctx context.Context, caseID uuid.UUID) (domain.MaterialStatus, error) {
	var (
		status  domain.MaterialStatus
		pending []events.Event
	)
	err := p.store.Transact(ctx, func(tx repository.Store) error {
		if _, err := tx.LockCase(ctx, caseID); err != nil {
			return err
		}
		var err error
		if pending, err = recomputeCaseStatus(ctx, tx, caseID); err != nil {
			return err
		}
		surgeryCase, err := tx.FindCaseByID(ctx, caseID)
		if err != nil {
			return err
		}
		status = surgeryCase.MaterialStatus
		return nil
	})
	if err != nil {
		return "", err
	}

	publishAll(ctx, p.publisher, p.logger, pending)
	return status, nil
}

// ConsumeMaterial commits every active reservation backing a reserved line
func (p *Planner) ConsumeMaterial(ctx context.Context, materialID uuid.UUID, loggedBy string) (*domain.SurgeryCaseMaterial, error) {
	var (
		material *domain.SurgeryCaseMaterial
		pending  []events.Event
	)
	err := p.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		material, err = lockMaterial(ctx, tx, materialID)
		if err != nil {
			return err
		}
		if material.Status != domain.MaterialReserved {
			return domain.InvalidStatef("material line %s is %s, not reserved", materialID, material.Status)
		}

		reservations, err := tx.FindReservationsByMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		for i := range reservations {
			if reservations[i].Status != domain.ReservationActive {
				continue
			}
			_, commitEvents, err := p.reservations.commitInTx(ctx, tx, reservations[i].ID, loggedBy)
			if err != nil {
				return err
			}
			pending = append(pending, commitEvents...)
		}

		material, err = tx.FindMaterialByID(ctx, materialID)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Case material consumed",
		zap.String("material_id", materialID.String()),
		zap.String("used_qty", material.UsedQty.String()),
	)
	publishAll(ctx, p.publisher, p.logger, pending)
	return material, nil
}

func requireOpen(surgeryCase *domain.SurgeryCase) error {
	switch surgeryCase.Status {
	case domain.CaseCompleted, domain.CaseCancelled:
		return domain.InvalidStatef("case %s is %s", surgeryCase.CaseNumber, surgeryCase.Status)
	}
	return nil
}
