package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"
	"github.com/kpcrmv4/manusdentalos/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	productColumns     = `id, code, name, unit, min_stock_level, created_at, updated_at`
	lotColumns         = `id, product_id, lot_number, expiry_date, physical_qty, available_qty, reserved_qty, cost_price, supplier_id, invoice_no, ref_code, received_date, created_at, updated_at`
	reservationColumns = `id, lot_id, case_material_id, reserved_qty, status, reserved_by, reserved_for, patient_name, surgery_date, expires_at, committed_at, cancelled_at, created_at, updated_at`
	caseColumns        = `id, case_number, patient_name, patient_id, surgery_date, surgery_type, dentist_name, notes, status, material_status, created_by, created_at, updated_at`
	materialColumns    = `id, case_id, product_id, required_qty, reserved_qty, used_qty, status, created_at, updated_at`
	usageLogColumns    = `id, lot_id, reservation_id, used_qty, patient_name, surgery_date, notes, logged_by, created_at`
	orderColumns       = `id, po_number, supplier_id, order_date, expected_delivery_date, status, total_amount, notes, created_by, created_at, updated_at`
	orderItemColumns   = `id, purchase_order_id, product_id, ordered_qty, received_qty, unit_price, total_price, created_at, updated_at`
)

// Postgres error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// NewPostgresDB opens a connection pool to PostgreSQL
func NewPostgresDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// PostgresStore implements Store on PostgreSQL. Lot quantities are only
// changed by guarded UPDATE statements, so concurrent requests cannot
// oversell a lot.
type PostgresStore struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	logger *zap.Logger
}

func NewPostgresStore(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, q: db, logger: logger}
}

// Migrate applies the embedded schema
func (s *PostgresStore) Migrate(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		s.logger.Info("Migration applied", zap.String("migration", name))
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&PostgresStore{db: s.db, q: tx, logger: s.logger}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into domain errors where one applies
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return domain.Conflictf("%s: %s", op, pqErr.Detail)
		case pqForeignKeyViolation:
			return domain.NotFoundf("%s: %s", op, pqErr.Detail)
		case pqCheckViolation:
			return domain.InvalidArgumentf("%s: violates %s", op, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Products

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES (:id, :code, :name, :unit, :min_stock_level, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, product); err != nil {
		return mapError("create product", err)
	}
	return nil
}

func (s *PostgresStore) FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := sqlx.GetContext(ctx, s.q, &product, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("product %s not found", id)
	}
	if err != nil {
		return nil, mapError("find product", err)
	}
	return &product, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, s.q, &products, `SELECT `+productColumns+` FROM products ORDER BY code`); err != nil {
		return nil, mapError("list products", err)
	}
	return products, nil
}

func (s *PostgresStore) FindLowStockProducts(ctx context.Context) ([]domain.StockLevel, error) {
	query := `
		SELECT p.id, p.code, p.name, p.unit, p.min_stock_level, p.created_at, p.updated_at,
			COALESCE(SUM(l.available_qty), 0) AS available_qty
		FROM products p
		LEFT JOIN inventory_lots l ON l.product_id = p.id
		GROUP BY p.id
		HAVING COALESCE(SUM(l.available_qty), 0) < p.min_stock_level
		ORDER BY p.code`

	levels := []domain.StockLevel{}
	if err := sqlx.SelectContext(ctx, s.q, &levels, query); err != nil {
		return nil, mapError("find low stock products", err)
	}
	return levels, nil
}

// Lots

func (s *PostgresStore) CreateLot(ctx context.Context, lot *domain.InventoryLot) error {
	query := `INSERT INTO inventory_lots (` + lotColumns + `)
		VALUES (:id, :product_id, :lot_number, :expiry_date, :physical_qty, :available_qty, :reserved_qty,
			:cost_price, :supplier_id, :invoice_no, :ref_code, :received_date, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, lot); err != nil {
		return mapError("create lot", err)
	}
	return nil
}

func (s *PostgresStore) FindLotByID(ctx context.Context, id uuid.UUID) (*domain.InventoryLot, error) {
	var lot domain.InventoryLot
	err := sqlx.GetContext(ctx, s.q, &lot, `SELECT `+lotColumns+` FROM inventory_lots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("lot %s not found", id)
	}
	if err != nil {
		return nil, mapError("find lot", err)
	}
	return &lot, nil
}

func (s *PostgresStore) FindLotsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots
		WHERE product_id = $1
		ORDER BY expiry_date ASC NULLS LAST, id ASC`

	lots := []domain.InventoryLot{}
	if err := sqlx.SelectContext(ctx, s.q, &lots, query, productID); err != nil {
		return nil, mapError("find lots by product", err)
	}
	return lots, nil
}

func (s *PostgresStore) FindExpiringLots(ctx context.Context, from, to time.Time) ([]domain.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots
		WHERE expiry_date IS NOT NULL AND expiry_date >= $1 AND expiry_date <= $2 AND available_qty > 0
		ORDER BY expiry_date ASC, id ASC`

	lots := []domain.InventoryLot{}
	if err := sqlx.SelectContext(ctx, s.q, &lots, query, from, to); err != nil {
		return nil, mapError("find expiring lots", err)
	}
	return lots, nil
}

// ReserveLot moves qty from available to reserved in one guarded statement
func (s *PostgresStore) ReserveLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	query := `UPDATE inventory_lots
		SET available_qty = available_qty - $1, reserved_qty = reserved_qty + $1, updated_at = $3
		WHERE id = $2 AND available_qty >= $1
		RETURNING ` + lotColumns

	lot, err := s.guardedLotUpdate(ctx, query, lotID, qty)
	if errors.Is(err, sql.ErrNoRows) {
		current, findErr := s.FindLotByID(ctx, lotID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, domain.InsufficientStockf("lot %s: requested %s, available %s", current.LotNumber, qty, current.AvailableQty)
	}
	return lot, err
}

// CommitLot removes reserved qty from physical stock in one guarded statement
func (s *PostgresStore) CommitLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	query := `UPDATE inventory_lots
		SET reserved_qty = reserved_qty - $1, physical_qty = physical_qty - $1, updated_at = $3
		WHERE id = $2 AND reserved_qty >= $1
		RETURNING ` + lotColumns

	lot, err := s.guardedLotUpdate(ctx, query, lotID, qty)
	if errors.Is(err, sql.ErrNoRows) {
		current, findErr := s.FindLotByID(ctx, lotID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, domain.InvalidStatef("lot %s: commit %s exceeds reserved %s", current.LotNumber, qty, current.ReservedQty)
	}
	return lot, err
}

// ReleaseLot returns reserved qty to available in one guarded statement
func (s *PostgresStore) ReleaseLot(ctx context.Context, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	query := `UPDATE inventory_lots
		SET reserved_qty = reserved_qty - $1, available_qty = available_qty + $1, updated_at = $3
		WHERE id = $2 AND reserved_qty >= $1
		RETURNING ` + lotColumns

	lot, err := s.guardedLotUpdate(ctx, query, lotID, qty)
	if errors.Is(err, sql.ErrNoRows) {
		current, findErr := s.FindLotByID(ctx, lotID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, domain.InvalidStatef("lot %s: release %s exceeds reserved %s", current.LotNumber, qty, current.ReservedQty)
	}
	return lot, err
}

// guardedLotUpdate returns sql.ErrNoRows when the WHERE guard rejected the update
func (s *PostgresStore) guardedLotUpdate(ctx context.Context, query string, lotID uuid.UUID, qty decimal.Decimal) (*domain.InventoryLot, error) {
	var lot domain.InventoryLot
	err := sqlx.GetContext(ctx, s.q, &lot, query, qty, lotID, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, mapError("update lot", err)
	}
	return &lot, nil
}

// Reservations

func (s *PostgresStore) InsertReservation(ctx context.Context, reservation *domain.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `)
		VALUES (:id, :lot_id, :case_material_id, :reserved_qty, :status, :reserved_by, :reserved_for, :patient_name,
			:surgery_date, :expires_at, :committed_at, :cancelled_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, reservation); err != nil {
		return mapError("insert reservation", err)
	}
	return nil
}

func (s *PostgresStore) FindReservationByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var r domain.Reservation
	err := sqlx.GetContext(ctx, s.q, &r, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("reservation %s not found", id)
	}
	if err != nil {
		return nil, mapError("find reservation", err)
	}
	return &r, nil
}

func (s *PostgresStore) FindActiveReservationsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE lot_id = $1 AND status = 'active'
		ORDER BY created_at, id`

	rs := []domain.Reservation{}
	if err := sqlx.SelectContext(ctx, s.q, &rs, query, lotID); err != nil {
		return nil, mapError("find reservations by lot", err)
	}
	return rs, nil
}

func (s *PostgresStore) FindReservationsByMaterial(ctx context.Context, materialID uuid.UUID) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE case_material_id = $1
		ORDER BY created_at, id`

	rs := []domain.Reservation{}
	if err := sqlx.SelectContext(ctx, s.q, &rs, query, materialID); err != nil {
		return nil, mapError("find reservations by material", err)
	}
	return rs, nil
}

func (s *PostgresStore) UpdateReservation(ctx context.Context, reservation *domain.Reservation) error {
	query := `UPDATE reservations
		SET status = $1, committed_at = $2, cancelled_at = $3, updated_at = $4
		WHERE id = $5 AND status = 'active'`

	result, err := s.q.ExecContext(ctx, query,
		reservation.Status, reservation.CommittedAt, reservation.CancelledAt, reservation.UpdatedAt, reservation.ID)
	if err != nil {
		return mapError("update reservation", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		current, findErr := s.FindReservationByID(ctx, reservation.ID)
		if findErr != nil {
			return findErr
		}
		return domain.InvalidStatef("reservation %s is %s, not active", current.ID, current.Status)
	}
	return nil
}

// Surgery cases

func (s *PostgresStore) CreateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	query := `INSERT INTO surgery_cases (` + caseColumns + `)
		VALUES (:id, :case_number, :patient_name, :patient_id, :surgery_date, :surgery_type, :dentist_name, :notes,
			:status, :material_status, :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, surgeryCase); err != nil {
		return mapError("create surgery case", err)
	}
	for i := range surgeryCase.Materials {
		if err := s.InsertMaterial(ctx, &surgeryCase.Materials[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) FindCaseByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error) {
	var c domain.SurgeryCase
	err := sqlx.GetContext(ctx, s.q, &c, `SELECT `+caseColumns+` FROM surgery_cases WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("surgery case %s not found", id)
	}
	if err != nil {
		return nil, mapError("find surgery case", err)
	}
	return &c, nil
}

func (s *PostgresStore) LockCase(ctx context.Context, id uuid.UUID) (*domain.SurgeryCase, error) {
	var c domain.SurgeryCase
	err := sqlx.GetContext(ctx, s.q, &c, `SELECT `+caseColumns+` FROM surgery_cases WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("surgery case %s not found", id)
	}
	if err != nil {
		return nil, mapError("lock surgery case", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListCases(ctx context.Context, filter CaseFilter) ([]domain.SurgeryCase, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("surgery_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("surgery_date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + caseColumns + ` FROM surgery_cases`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY surgery_date, case_number`

	cases := []domain.SurgeryCase{}
	if err := sqlx.SelectContext(ctx, s.q, &cases, query, args...); err != nil {
		return nil, mapError("list surgery cases", err)
	}
	return cases, nil
}

func (s *PostgresStore) UpdateCase(ctx context.Context, surgeryCase *domain.SurgeryCase) error {
	query := `UPDATE surgery_cases SET status = $1, material_status = $2, updated_at = $3 WHERE id = $4`
	result, err := s.q.ExecContext(ctx, query,
		surgeryCase.Status, surgeryCase.MaterialStatus, surgeryCase.UpdatedAt, surgeryCase.ID)
	if err != nil {
		return mapError("update surgery case", err)
	}
	return requireRow(result, "surgery case", surgeryCase.ID)
}

func (s *PostgresStore) InsertMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	query := `INSERT INTO surgery_case_materials (` + materialColumns + `)
		VALUES (:id, :case_id, :product_id, :required_qty, :reserved_qty, :used_qty, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, material); err != nil {
		return mapError("insert case material", err)
	}
	return nil
}

func (s *PostgresStore) FindMaterialByID(ctx context.Context, id uuid.UUID) (*domain.SurgeryCaseMaterial, error) {
	var m domain.SurgeryCaseMaterial
	err := sqlx.GetContext(ctx, s.q, &m, `SELECT `+materialColumns+` FROM surgery_case_materials WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("case material %s not found", id)
	}
	if err != nil {
		return nil, mapError("find case material", err)
	}

	materials := []domain.SurgeryCaseMaterial{m}
	if err := s.attachReservationIDs(ctx, materials); err != nil {
		return nil, err
	}
	return &materials[0], nil
}

func (s *PostgresStore) FindMaterialsByCase(ctx context.Context, caseID uuid.UUID) ([]domain.SurgeryCaseMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM surgery_case_materials WHERE case_id = $1 ORDER BY created_at, id`

	materials := []domain.SurgeryCaseMaterial{}
	if err := sqlx.SelectContext(ctx, s.q, &materials, query, caseID); err != nil {
		return nil, mapError("find case materials", err)
	}
	if err := s.attachReservationIDs(ctx, materials); err != nil {
		return nil, err
	}
	return materials, nil
}

type materialReservation struct {
	ID             uuid.UUID `db:"id"`
	CaseMaterialID uuid.UUID `db:"case_material_id"`
}

// attachReservationIDs loads the reservations backing each material line
func (s *PostgresStore) attachReservationIDs(ctx context.Context, materials []domain.SurgeryCaseMaterial) error {
	if len(materials) == 0 {
		return nil
	}

	ids := make([]string, len(materials))
	index := make(map[uuid.UUID]int, len(materials))
	for i := range materials {
		ids[i] = materials[i].ID.String()
		index[materials[i].ID] = i
		materials[i].ReservationIDs = []uuid.UUID{}
	}

	query := `SELECT id, case_material_id FROM reservations
		WHERE case_material_id = ANY($1::uuid[])
		ORDER BY created_at, id`

	var links []materialReservation
	if err := sqlx.SelectContext(ctx, s.q, &links, query, pq.Array(ids)); err != nil {
		return mapError("find material reservations", err)
	}
	for _, link := range links {
		if i, ok := index[link.CaseMaterialID]; ok {
			materials[i].ReservationIDs = append(materials[i].ReservationIDs, link.ID)
		}
	}
	return nil
}

func (s *PostgresStore) UpdateMaterial(ctx context.Context, material *domain.SurgeryCaseMaterial) error {
	query := `UPDATE surgery_case_materials
		SET reserved_qty = $1, used_qty = $2, status = $3, updated_at = $4
		WHERE id = $5`
	result, err := s.q.ExecContext(ctx, query,
		material.ReservedQty, material.UsedQty, material.Status, material.UpdatedAt, material.ID)
	if err != nil {
		return mapError("update case material", err)
	}
	return requireRow(result, "case material", material.ID)
}

// Usage logs

func (s *PostgresStore) InsertUsageLog(ctx context.Context, log *domain.UsageLog) error {
	query := `INSERT INTO usage_logs (` + usageLogColumns + `)
		VALUES (:id, :lot_id, :reservation_id, :used_qty, :patient_name, :surgery_date, :notes, :logged_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, log); err != nil {
		return mapError("insert usage log", err)
	}
	return nil
}

func (s *PostgresStore) FindUsageLogsByLot(ctx context.Context, lotID uuid.UUID) ([]domain.UsageLog, error) {
	logs := []domain.UsageLog{}
	query := `SELECT ` + usageLogColumns + ` FROM usage_logs WHERE lot_id = $1 ORDER BY created_at, id`
	if err := sqlx.SelectContext(ctx, s.q, &logs, query, lotID); err != nil {
		return nil, mapError("find usage logs", err)
	}
	return logs, nil
}

// Purchase orders

func (s *PostgresStore) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES (:id, :po_number, :supplier_id, :order_date, :expected_delivery_date, :status, :total_amount,
			:notes, :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, po); err != nil {
		return mapError("create purchase order", err)
	}

	itemQuery := `INSERT INTO purchase_order_items (` + orderItemColumns + `)
		VALUES (:id, :purchase_order_id, :product_id, :ordered_qty, :received_qty, :unit_price, :total_price,
			:created_at, :updated_at)`
	for i := range po.Items {
		if _, err := sqlx.NamedExecContext(ctx, s.q, itemQuery, &po.Items[i]); err != nil {
			return mapError("insert purchase order item", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindPurchaseOrderByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := sqlx.GetContext(ctx, s.q, &po, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("purchase order %s not found", id)
	}
	if err != nil {
		return nil, mapError("find purchase order", err)
	}

	po.Items = []domain.PurchaseOrderItem{}
	query := `SELECT ` + orderItemColumns + ` FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY created_at, id`
	if err := sqlx.SelectContext(ctx, s.q, &po.Items, query, id); err != nil {
		return nil, mapError("find purchase order items", err)
	}
	return &po, nil
}

func (s *PostgresStore) ListPurchaseOrders(ctx context.Context, status *domain.PurchaseOrderStatus) ([]domain.PurchaseOrder, error) {
	var args []interface{}
	query := `SELECT ` + orderColumns + ` FROM purchase_orders`
	if status != nil {
		args = append(args, string(*status))
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY order_date DESC, po_number`

	orders := []domain.PurchaseOrder{}
	if err := sqlx.SelectContext(ctx, s.q, &orders, query, args...); err != nil {
		return nil, mapError("list purchase orders", err)
	}
	return orders, nil
}

func requireRow(result sql.Result, entity string, id uuid.UUID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.NotFoundf("%s %s not found", entity, id)
	}
	return nil
}
