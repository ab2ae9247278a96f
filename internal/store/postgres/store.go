package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const sellerColumns = `
	v.id, v.nome, v.avatar_url, v.status, v.posicao_fila, v.ultimo_atendimento, v.criado_em,
	v.meta_faturamento, v.meta_pa, v.meta_ticket, v.meta_conversao,
	a.id, a.cliente_nome, a.criado_em`

const activeServiceJoin = `
	LEFT JOIN LATERAL (
		SELECT id, cliente_nome, criado_em
		FROM atendimentos
		WHERE vendedor_id = v.id AND status = 'PENDING'
		ORDER BY criado_em DESC
		LIMIT 1
	) a ON TRUE`

func (s *Store) ListSellers(ctx context.Context) ([]models.Seller, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sellerColumns+`
		FROM vendedores v`+activeServiceJoin+`
		ORDER BY v.posicao_fila ASC NULLS LAST, v.nome ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSellers(rows)
}

func (s *Store) GetSeller(ctx context.Context, sellerID string) (models.Seller, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sellerColumns+`
		FROM vendedores v`+activeServiceJoin+`
		WHERE v.id = $1
	`, sellerID)
	seller, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Seller{}, store.ErrSellerNotFound
		}
		return models.Seller{}, err
	}
	return seller, nil
}

func (s *Store) CreateSeller(ctx context.Context, name, avatar string) (models.Seller, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Seller{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	position, err := nextQueuePosition(ctx, tx)
	if err != nil {
		return models.Seller{}, err
	}

	sellerID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO vendedores (id, nome, avatar_url, status, posicao_fila)
		VALUES ($1, $2, $3, $4, $5)
	`, sellerID, name, nullIfEmpty(avatar), models.StatusAvailable, position)
	if err != nil {
		return models.Seller{}, err
	}

	seller, err := getSellerTx(ctx, tx, sellerID)
	if err != nil {
		return models.Seller{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Seller{}, err
	}
	return seller, nil
}

func (s *Store) UpdateSellerProfile(ctx context.Context, sellerID, name, avatar string) (models.Seller, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendedores
		SET nome = COALESCE(NULLIF($2, ''), nome),
			avatar_url = COALESCE(NULLIF($3, ''), avatar_url)
		WHERE id = $1
	`, sellerID, name, avatar)
	if err != nil {
		return models.Seller{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Seller{}, store.ErrSellerNotFound
	}
	return s.GetSeller(ctx, sellerID)
}

func (s *Store) DeleteSeller(ctx context.Context, sellerID string) error {
	// Positions of remaining sellers are never compacted.
	tag, err := s.pool.Exec(ctx, `DELETE FROM vendedores WHERE id = $1`, sellerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSellerNotFound
	}
	return nil
}

func (s *Store) TransitionStatus(ctx context.Context, sellerID, status string) (models.Seller, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Seller{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	eligible, err := resolveEligibility(ctx, tx, status)
	if err != nil {
		return models.Seller{}, err
	}

	var current sql.NullInt32
	row := tx.QueryRow(ctx, `
		SELECT posicao_fila FROM vendedores WHERE id = $1 FOR UPDATE
	`, sellerID)
	if err = row.Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Seller{}, store.ErrSellerNotFound
		}
		return models.Seller{}, err
	}

	switch {
	case eligible && !current.Valid:
		var position int
		position, err = nextQueuePosition(ctx, tx)
		if err != nil {
			return models.Seller{}, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE vendedores SET status = $2, posicao_fila = $3 WHERE id = $1
		`, sellerID, status, position)
	case eligible:
		// Already holds a slot; the position is left untouched.
		_, err = tx.Exec(ctx, `
			UPDATE vendedores SET status = $2 WHERE id = $1
		`, sellerID, status)
	default:
		_, err = tx.Exec(ctx, `
			UPDATE vendedores SET status = $2, posicao_fila = NULL WHERE id = $1
		`, sellerID, status)
	}
	if err != nil {
		return models.Seller{}, err
	}

	seller, err := getSellerTx(ctx, tx, sellerID)
	if err != nil {
		return models.Seller{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.Seller{}, err
	}
	return seller, nil
}

func (s *Store) AssignService(ctx context.Context, input store.AssignServiceInput) (models.ServiceRecord, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.ServiceRecord{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status string
	var position sql.NullInt32
	row := tx.QueryRow(ctx, `
		SELECT status, posicao_fila FROM vendedores WHERE id = $1 FOR UPDATE
	`, input.SellerID)
	if err = row.Scan(&status, &position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ServiceRecord{}, store.ErrSellerNotFound
		}
		return models.ServiceRecord{}, err
	}

	eligible, err := resolveEligibilityLoose(ctx, tx, status)
	if err != nil {
		return models.ServiceRecord{}, err
	}
	if !eligible || !position.Valid {
		return models.ServiceRecord{}, store.ErrInvalidState
	}

	if !input.Override {
		var firstID string
		firstID, err = firstInQueue(ctx, tx)
		if err != nil {
			return models.ServiceRecord{}, err
		}
		if firstID != input.SellerID {
			err = store.ErrNotNextInQueue
			return models.ServiceRecord{}, err
		}
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	serviceID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO atendimentos (id, vendedor_id, cliente_nome, cliente_whatsapp, tipo_atendimento, status, criado_em, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, serviceID, input.SellerID, input.ClientName, nullIfEmpty(input.ClientContact), input.ServiceType, models.ServicePending, createdAt, nullIfEmpty(input.Observations))
	if err != nil {
		if isUniqueViolation(err) {
			return models.ServiceRecord{}, store.ErrSellerBusy
		}
		return models.ServiceRecord{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE vendedores SET status = $2, posicao_fila = NULL WHERE id = $1
	`, input.SellerID, models.StatusInService)
	if err != nil {
		return models.ServiceRecord{}, err
	}

	if input.ClientContact != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO clientes (whatsapp, nome, ultimo_vendedor_id, atualizado_em)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (whatsapp) DO UPDATE
			SET nome = EXCLUDED.nome,
				ultimo_vendedor_id = EXCLUDED.ultimo_vendedor_id,
				atualizado_em = EXCLUDED.atualizado_em
		`, input.ClientContact, input.ClientName, input.SellerID, createdAt)
		if err != nil {
			return models.ServiceRecord{}, err
		}
	}

	record, err := getServiceTx(ctx, tx, serviceID)
	if err != nil {
		return models.ServiceRecord{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func (s *Store) CompleteService(ctx context.Context, input store.CompleteServiceInput) (models.ServiceRecord, error) {
	completedAt := input.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.ServiceRecord{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var record models.ServiceRecord
	// The status guard makes completion first-writer-wins: a concurrent
	// duplicate submit matches zero rows and maps to ErrInvalidState.
	row := tx.QueryRow(ctx, `
		UPDATE atendimentos
		SET status = $2,
			venda_realizada = $3,
			valor_venda = $4,
			itens_venda = $5,
			motivo_perda = $6,
			observacoes = COALESCE(NULLIF($7, ''), observacoes),
			finalizado_em = $8
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+serviceColumns+`
	`, input.ServiceID, models.ServiceCompleted, input.IsSale, input.SaleValue, input.ItemsCount,
		nullIfEmpty(input.LossReason), input.Observations, completedAt)
	record, err = scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ServiceRecord{}, terminalStateError(ctx, tx, input.ServiceID)
		}
		return models.ServiceRecord{}, err
	}

	if err = returnSellerToQueue(ctx, tx, record.SellerID, completedAt); err != nil {
		return models.ServiceRecord{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func (s *Store) CancelService(ctx context.Context, serviceID string) (models.ServiceRecord, error) {
	now := time.Now().UTC()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.ServiceRecord{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		UPDATE atendimentos
		SET status = $2, finalizado_em = $3
		WHERE id = $1 AND status = 'PENDING'
		RETURNING `+serviceColumns+`
	`, serviceID, models.ServiceCancelled, now)
	record, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ServiceRecord{}, terminalStateError(ctx, tx, serviceID)
		}
		return models.ServiceRecord{}, err
	}

	if err = returnSellerToQueue(ctx, tx, record.SellerID, now); err != nil {
		return models.ServiceRecord{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func (s *Store) GetService(ctx context.Context, serviceID string) (models.ServiceRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+` FROM atendimentos WHERE id = $1
	`, serviceID)
	record, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ServiceRecord{}, store.ErrServiceNotFound
		}
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func (s *Store) ListServices(ctx context.Context, filter store.ServiceFilter) ([]models.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM atendimentos WHERE 1=1`
	args := []interface{}{}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		query += fmt.Sprintf(" AND vendedor_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND criado_em >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND criado_em <= $%d", len(args))
	}
	query += ` ORDER BY criado_em DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ServiceRecord
	for rows.Next() {
		record, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) ListCustomStatuses(ctx context.Context) ([]models.CustomStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, label, icon, color, behavior FROM custom_statuses ORDER BY label ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.CustomStatus
	for rows.Next() {
		status, err := scanCustomStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Store) CreateCustomStatus(ctx context.Context, status models.CustomStatus) (models.CustomStatus, error) {
	status.StatusID = uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO custom_statuses (id, label, icon, color, behavior)
		VALUES ($1, $2, $3, $4, $5)
	`, status.StatusID, status.Label, nullIfEmpty(status.Icon), nullIfEmpty(status.Color), status.Behavior)
	if err != nil {
		return models.CustomStatus{}, err
	}
	return status, nil
}

func (s *Store) UpdateCustomStatus(ctx context.Context, status models.CustomStatus) (models.CustomStatus, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.CustomStatus{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE custom_statuses
		SET label = $2, icon = $3, color = $4, behavior = $5
		WHERE id = $1
	`, status.StatusID, status.Label, nullIfEmpty(status.Icon), nullIfEmpty(status.Color), status.Behavior)
	if err != nil {
		return models.CustomStatus{}, err
	}
	if tag.RowsAffected() == 0 {
		err = store.ErrStatusNotFound
		return models.CustomStatus{}, err
	}

	// Keep holders consistent with the new behavior right away rather
	// than waiting for their next manual transition.
	if status.Behavior == models.BehaviorInactive {
		_, err = tx.Exec(ctx, `
			UPDATE vendedores SET posicao_fila = NULL WHERE status = $1
		`, status.StatusID)
		if err != nil {
			return models.CustomStatus{}, err
		}
	} else {
		var holders []string
		rows, qerr := tx.Query(ctx, `
			SELECT id FROM vendedores
			WHERE status = $1 AND posicao_fila IS NULL
			ORDER BY nome ASC
		`, status.StatusID)
		if qerr != nil {
			err = qerr
			return models.CustomStatus{}, err
		}
		for rows.Next() {
			var id string
			if err = rows.Scan(&id); err != nil {
				rows.Close()
				return models.CustomStatus{}, err
			}
			holders = append(holders, id)
		}
		rows.Close()
		if err = rows.Err(); err != nil {
			return models.CustomStatus{}, err
		}
		for _, id := range holders {
			var position int
			position, err = nextQueuePosition(ctx, tx)
			if err != nil {
				return models.CustomStatus{}, err
			}
			if _, err = tx.Exec(ctx, `
				UPDATE vendedores SET posicao_fila = $2 WHERE id = $1
			`, id, position); err != nil {
				return models.CustomStatus{}, err
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.CustomStatus{}, err
	}
	return status, nil
}

func (s *Store) DeleteCustomStatus(ctx context.Context, statusID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Holders keep the dangling status id and read as inactive, so
	// their rotation slots are released here.
	if _, err = tx.Exec(ctx, `
		UPDATE vendedores SET posicao_fila = NULL WHERE status = $1
	`, statusID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM custom_statuses WHERE id = $1`, statusID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = store.ErrStatusNotFound
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) GetStoreGoals(ctx context.Context) (models.StoreGoals, error) {
	var goals models.StoreGoals
	row := s.pool.QueryRow(ctx, `
		SELECT meta_faturamento, meta_pa, meta_ticket, meta_conversao, atualizado_em
		FROM store_goals
		WHERE id = 1
	`)
	if err := row.Scan(&goals.Revenue, &goals.UnitsPerSale, &goals.AverageTicket, &goals.ConversionRate, &goals.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StoreGoals{}, nil
		}
		return models.StoreGoals{}, err
	}
	return goals, nil
}

func (s *Store) UpsertStoreGoals(ctx context.Context, goals models.StoreGoals) (models.StoreGoals, error) {
	updatedAt := time.Now().UTC()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO store_goals (id, meta_faturamento, meta_pa, meta_ticket, meta_conversao, atualizado_em)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET meta_faturamento = EXCLUDED.meta_faturamento,
			meta_pa = EXCLUDED.meta_pa,
			meta_ticket = EXCLUDED.meta_ticket,
			meta_conversao = EXCLUDED.meta_conversao,
			atualizado_em = EXCLUDED.atualizado_em
		RETURNING meta_faturamento, meta_pa, meta_ticket, meta_conversao, atualizado_em
	`, goals.Revenue, goals.UnitsPerSale, goals.AverageTicket, goals.ConversionRate, updatedAt)
	var saved models.StoreGoals
	if err := row.Scan(&saved.Revenue, &saved.UnitsPerSale, &saved.AverageTicket, &saved.ConversionRate, &saved.UpdatedAt); err != nil {
		return models.StoreGoals{}, err
	}
	return saved, nil
}

func (s *Store) UpsertSellerGoals(ctx context.Context, sellerID string, goals models.SellerGoals) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendedores
		SET meta_faturamento = $2, meta_pa = $3, meta_ticket = $4, meta_conversao = $5
		WHERE id = $1
	`, sellerID, goals.Revenue, goals.UnitsPerSale, goals.AverageTicket, goals.ConversionRate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSellerNotFound
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, contact string) (models.Client, error) {
	var client models.Client
	var lastSeller sql.NullString
	row := s.pool.QueryRow(ctx, `
		SELECT whatsapp, nome, ultimo_vendedor_id, atualizado_em
		FROM clientes
		WHERE whatsapp = $1
	`, contact)
	if err := row.Scan(&client.Contact, &client.Name, &lastSeller, &client.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Client{}, store.ErrClientNotFound
		}
		return models.Client{}, err
	}
	if lastSeller.Valid {
		client.LastSellerID = lastSeller.String
	}
	return client, nil
}

// nextQueuePosition bumps the single-row queue counter. The counter is
// only ever incremented, so the value returned is strictly greater than
// every position already assigned; the row lock taken by the upsert
// serializes concurrent entrants.
func nextQueuePosition(ctx context.Context, tx pgx.Tx) (int, error) {
	var next int
	row := tx.QueryRow(ctx, `
		INSERT INTO fila_sequencia (id, proxima)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET proxima = fila_sequencia.proxima + 1
		RETURNING proxima
	`)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func returnSellerToQueue(ctx context.Context, tx pgx.Tx, sellerID string, servedAt time.Time) error {
	position, err := nextQueuePosition(ctx, tx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE vendedores
		SET status = $2, posicao_fila = $3, ultimo_atendimento = $4
		WHERE id = $1
	`, sellerID, models.StatusAvailable, position, servedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSellerNotFound
	}
	return nil
}

func firstInQueue(ctx context.Context, tx pgx.Tx) (string, error) {
	var id string
	row := tx.QueryRow(ctx, `
		SELECT id FROM vendedores
		WHERE posicao_fila IS NOT NULL
			AND (status = 'AVAILABLE'
				OR status IN (SELECT id::text FROM custom_statuses WHERE behavior = 'ACTIVE'))
		ORDER BY posicao_fila ASC
		LIMIT 1
	`)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// resolveEligibility decides rotation eligibility for a target status
// and rejects unknown custom status ids.
func resolveEligibility(ctx context.Context, tx pgx.Tx, status string) (bool, error) {
	if models.IsSystemStatus(status) {
		return status == models.StatusAvailable, nil
	}
	var behavior string
	row := tx.QueryRow(ctx, `SELECT behavior FROM custom_statuses WHERE id = $1`, status)
	if err := row.Scan(&behavior); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, store.ErrStatusNotFound
		}
		return false, err
	}
	return behavior == models.BehaviorActive, nil
}

// resolveEligibilityLoose is the read-side variant: a dangling custom
// status id is not an error, it simply counts as inactive.
func resolveEligibilityLoose(ctx context.Context, tx pgx.Tx, status string) (bool, error) {
	eligible, err := resolveEligibility(ctx, tx, status)
	if errors.Is(err, store.ErrStatusNotFound) {
		return false, nil
	}
	return eligible, err
}

func terminalStateError(ctx context.Context, tx pgx.Tx, serviceID string) error {
	var status string
	row := tx.QueryRow(ctx, `SELECT status FROM atendimentos WHERE id = $1`, serviceID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrServiceNotFound
		}
		return err
	}
	return store.ErrInvalidState
}

const serviceColumns = `
	id, vendedor_id, cliente_nome, cliente_whatsapp, tipo_atendimento, status,
	venda_realizada, valor_venda, itens_venda, motivo_perda, observacoes, criado_em, finalizado_em`

func getServiceTx(ctx context.Context, tx pgx.Tx, serviceID string) (models.ServiceRecord, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+serviceColumns+` FROM atendimentos WHERE id = $1
	`, serviceID)
	record, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ServiceRecord{}, store.ErrServiceNotFound
		}
		return models.ServiceRecord{}, err
	}
	return record, nil
}

func getSellerTx(ctx context.Context, tx pgx.Tx, sellerID string) (models.Seller, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+sellerColumns+`
		FROM vendedores v`+activeServiceJoin+`
		WHERE v.id = $1
	`, sellerID)
	seller, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Seller{}, store.ErrSellerNotFound
		}
		return models.Seller{}, err
	}
	return seller, nil
}

func scanSellers(rows pgx.Rows) ([]models.Seller, error) {
	var sellers []models.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, seller)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sellers, nil
}

func scanSeller(row pgx.Row) (models.Seller, error) {
	var seller models.Seller
	var avatar sql.NullString
	var position sql.NullInt32
	var lastService sql.NullTime
	var goalRevenue, goalPA, goalTicket, goalConversion sql.NullFloat64
	var activeID, activeClient sql.NullString
	var activeStart sql.NullTime
	if err := row.Scan(
		&seller.SellerID, &seller.Name, &avatar, &seller.Status, &position, &lastService, &seller.CreatedAt,
		&goalRevenue, &goalPA, &goalTicket, &goalConversion,
		&activeID, &activeClient, &activeStart,
	); err != nil {
		return models.Seller{}, err
	}
	if avatar.Valid {
		seller.Avatar = avatar.String
	}
	if position.Valid {
		value := int(position.Int32)
		seller.QueuePosition = &value
	}
	seller.LastServiceAt = nullTimePtr(lastService)
	if goalRevenue.Valid || goalPA.Valid || goalTicket.Valid || goalConversion.Valid {
		seller.Goals = &models.SellerGoals{
			Revenue:        nullFloatPtr(goalRevenue),
			UnitsPerSale:   nullFloatPtr(goalPA),
			AverageTicket:  nullFloatPtr(goalTicket),
			ConversionRate: nullFloatPtr(goalConversion),
		}
	}
	if activeID.Valid {
		seller.ActiveServiceID = activeID.String
	}
	if activeClient.Valid {
		seller.ActiveClientName = activeClient.String
	}
	seller.ActiveServiceStart = nullTimePtr(activeStart)
	return seller, nil
}

func scanService(row pgx.Row) (models.ServiceRecord, error) {
	var record models.ServiceRecord
	var contact, lossReason, observations sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(
		&record.ServiceID, &record.SellerID, &record.ClientName, &contact, &record.ServiceType, &record.Status,
		&record.IsSale, &record.SaleValue, &record.ItemsCount, &lossReason, &observations, &record.CreatedAt, &completedAt,
	); err != nil {
		return models.ServiceRecord{}, err
	}
	if contact.Valid {
		record.ClientContact = contact.String
	}
	if lossReason.Valid {
		record.LossReason = lossReason.String
	}
	if observations.Valid {
		record.Observations = observations.String
	}
	record.CompletedAt = nullTimePtr(completedAt)
	return record, nil
}

func scanCustomStatus(row pgx.Row) (models.CustomStatus, error) {
	var status models.CustomStatus
	var icon, color sql.NullString
	if err := row.Scan(&status.StatusID, &status.Label, &icon, &color, &status.Behavior); err != nil {
		return models.CustomStatus{}, err
	}
	if icon.Valid {
		status.Icon = icon.String
	}
	if color.Valid {
		status.Color = color.String
	}
	return status, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	return &value.Time
}

func nullFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	return &value.Float64
}
