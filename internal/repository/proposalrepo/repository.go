package proposalrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	"qwhomes/internal/errors"
	"qwhomes/internal/pkg/logger"
)

// ProposalRepository implementa a persistência de propostas comerciais e
// suas linhas de produto.
type ProposalRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProposalRepository cria e retorna uma nova instância do Repositório de Propostas.
func NewProposalRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProposalRepository {
	return &ProposalRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save persiste uma nova proposta e suas linhas em uma única transação.
// A proposta e as linhas vivem ou morrem juntas; nunca persistimos um
// envelope sem linhas ou linhas órfãs.
func (r *ProposalRepository) Save(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	r.logger.Debug("Iniciando Save de proposta no repositório.", map[string]interface{}{"name": proposal.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Proposal{}, errors.NewDBError("Falha ao iniciar transação de proposta", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if proposal.ID == "" {
		proposal.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	const proposalSQL = `
        INSERT INTO proposals (id, name, apartment_type_id, client_id, total_price, discount, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctxTimeout, proposalSQL,
		proposal.ID, proposal.Name, proposal.ApartmentTypeID, proposal.ClientID,
		proposal.TotalPrice, proposal.Discount, proposal.Status,
		proposal.CreatedAt, proposal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir proposta no DB.", err)
		return domain.Proposal{}, errors.NewDBError("Falha ao criar proposta", err)
	}

	if err = r.insertLines(ctxTimeout, tx, proposal.ID, proposal.Products); err != nil {
		return domain.Proposal{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Proposal{}, errors.NewDBError("Falha ao confirmar transação de proposta", err)
	}

	r.logger.Info("Proposta criada com sucesso.", map[string]interface{}{"id": proposal.ID, "name": proposal.Name})
	return r.FindByID(ctx, proposal.ID)
}

// insertLines insere as linhas da proposta dentro da transação corrente.
func (r *ProposalRepository) insertLines(ctx context.Context, tx *sql.Tx, proposalID string, lines []domain.ProposalProduct) error {
	const lineSQL = `
        INSERT INTO proposal_products (id, proposal_id, product_id, quantity, price, total_price, product_discount)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, line := range lines {
		lineID := line.ID
		if lineID == "" {
			lineID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx, lineSQL,
			lineID, proposalID, line.ProductID,
			line.Quantity, line.Price, line.TotalPrice, line.ProductDiscount,
		); err != nil {
			r.logger.Error("Falha ao inserir linha de proposta no DB.", err)
			return errors.NewDBError("Falha ao inserir linha de proposta", err)
		}
	}
	return nil
}

// FindByID busca uma proposta completa: envelope com nomes resolvidos de
// cliente e tipo de apartamento, mais as linhas com nome e SKU do produto.
func (r *ProposalRepository) FindByID(ctx context.Context, id string) (domain.Proposal, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT p.id, p.name, p.apartment_type_id, at.name, p.client_id, c.name,
               p.total_price, p.discount, p.status, p.created_at, p.updated_at
        FROM proposals p
        JOIN apartment_types at ON at.id = p.apartment_type_id
        JOIN clients c ON c.id = p.client_id
        WHERE p.id = $1`

	var proposal domain.Proposal
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&proposal.ID, &proposal.Name,
		&proposal.ApartmentTypeID, &proposal.ApartmentName,
		&proposal.ClientID, &proposal.ClientName,
		&proposal.TotalPrice, &proposal.Discount, &proposal.Status,
		&proposal.CreatedAt, &proposal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Proposal{}, errors.NewNotFoundError(fmt.Sprintf("Proposta com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar proposta no DB.", err)
		return domain.Proposal{}, errors.NewDBError("Falha ao buscar proposta", err)
	}

	proposal.Products, err = r.findLines(ctxTimeout, id)
	if err != nil {
		return domain.Proposal{}, err
	}

	return proposal, nil
}

// findLines carrega as linhas de uma proposta, com nome e SKU resolvidos
// por join com o catálogo (campos somente leitura na API).
func (r *ProposalRepository) findLines(ctx context.Context, proposalID string) ([]domain.ProposalProduct, error) {
	query := `
        SELECT pp.id, pp.proposal_id, pp.product_id, pr.name, pr.sku,
               pp.quantity, pp.price, pp.total_price, pp.product_discount
        FROM proposal_products pp
        JOIN products pr ON pr.id = pp.product_id
        WHERE pp.proposal_id = $1
        ORDER BY pr.name ASC`

	rows, err := r.DB.QueryContext(ctx, query, proposalID)
	if err != nil {
		r.logger.Error("Falha ao listar linhas de proposta no DB.", err)
		return nil, errors.NewDBError("Falha ao listar linhas de proposta", err)
	}
	defer rows.Close()

	var lines []domain.ProposalProduct
	for rows.Next() {
		var line domain.ProposalProduct
		if err := rows.Scan(
			&line.ID, &line.ProposalID, &line.ProductID, &line.Name, &line.SKU,
			&line.Quantity, &line.Price, &line.TotalPrice, &line.ProductDiscount,
		); err != nil {
			return nil, errors.NewDBError("Falha ao mapear linha de proposta", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar linhas de proposta", err)
	}

	return lines, nil
}

// FindAll lista propostas com paginação, mais recentes primeiro.
// O envelope de lista não carrega as linhas; o detalhe (FindByID) carrega.
func (r *ProposalRepository) FindAll(ctx context.Context, filter domain.ProposalFilter) ([]domain.Proposal, int, error) {
	r.logger.Debug("Iniciando FindAll de propostas no repositório.", map[string]interface{}{"page": filter.Page, "limit": filter.Limit})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	offset := filter.Page * filter.Limit

	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM proposals p" + where
	if err := r.DB.QueryRowContext(ctxTimeout, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar propostas no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao contar propostas", err)
	}

	args = append(args, filter.Limit, offset)
	query := `
        SELECT p.id, p.name, p.apartment_type_id, at.name, p.client_id, c.name,
               p.total_price, p.discount, p.status, p.created_at, p.updated_at
        FROM proposals p
        JOIN apartment_types at ON at.id = p.apartment_type_id
        JOIN clients c ON c.id = p.client_id` + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar propostas no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao listar propostas", err)
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		var proposal domain.Proposal
		if err := rows.Scan(
			&proposal.ID, &proposal.Name,
			&proposal.ApartmentTypeID, &proposal.ApartmentName,
			&proposal.ClientID, &proposal.ClientName,
			&proposal.TotalPrice, &proposal.Discount, &proposal.Status,
			&proposal.CreatedAt, &proposal.UpdatedAt,
		); err != nil {
			return nil, 0, errors.NewDBError("Falha ao mapear proposta", err)
		}
		proposals = append(proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar propostas", err)
	}

	return proposals, total, nil
}

// Update substitui o envelope e as linhas de uma proposta em uma única
// transação. As linhas antigas são descartadas e o conjunto novo inserido
// por inteiro, espelhando a semântica de submissão do rascunho.
func (r *ProposalRepository) Update(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	r.logger.Debug("Iniciando Update de proposta no repositório.", map[string]interface{}{"id": proposal.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Proposal{}, errors.NewDBError("Falha ao iniciar transação de proposta", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	proposal.UpdatedAt = time.Now().UTC()

	const updateSQL = `
        UPDATE proposals
        SET name = $2, apartment_type_id = $3, client_id = $4,
            total_price = $5, discount = $6, updated_at = $7
        WHERE id = $1`

	var result sql.Result
	result, err = tx.ExecContext(ctxTimeout, updateSQL,
		proposal.ID, proposal.Name, proposal.ApartmentTypeID, proposal.ClientID,
		proposal.TotalPrice, proposal.Discount, proposal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar proposta no DB.", err)
		return domain.Proposal{}, errors.NewDBError("Falha ao atualizar proposta", err)
	}

	var affected int64
	affected, err = result.RowsAffected()
	if err != nil {
		return domain.Proposal{}, errors.NewDBError("Falha ao verificar atualização de proposta", err)
	}
	if affected == 0 {
		err = errors.NewNotFoundError(fmt.Sprintf("Proposta com ID %s não encontrada.", proposal.ID))
		return domain.Proposal{}, err
	}

	if _, err = tx.ExecContext(ctxTimeout, `DELETE FROM proposal_products WHERE proposal_id = $1`, proposal.ID); err != nil {
		r.logger.Error("Falha ao limpar linhas da proposta no DB.", err)
		return domain.Proposal{}, errors.NewDBError("Falha ao limpar linhas da proposta", err)
	}

	if err = r.insertLines(ctxTimeout, tx, proposal.ID, proposal.Products); err != nil {
		return domain.Proposal{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Proposal{}, errors.NewDBError("Falha ao confirmar transação de proposta", err)
	}

	r.logger.Info("Proposta atualizada com sucesso.", map[string]interface{}{"id": proposal.ID})
	return r.FindByID(ctx, proposal.ID)
}

// UpdateStatus grava o novo estado do fluxo de trabalho da proposta.
// A validação da transição acontece na camada de serviço; aqui apenas
// persistimos.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	r.logger.Debug("Iniciando UpdateStatus de proposta no repositório.", map[string]interface{}{"id": id, "status": status})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE proposals SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar status da proposta no DB.", err)
		return errors.NewDBError("Falha ao atualizar status da proposta", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar atualização de status", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Proposta com ID %s não encontrada.", id))
	}

	return nil
}

// Delete remove a proposta e suas linhas em uma única transação.
func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de proposta no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação de proposta", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctxTimeout, `DELETE FROM proposal_products WHERE proposal_id = $1`, id); err != nil {
		r.logger.Error("Falha ao deletar linhas da proposta no DB.", err)
		return errors.NewDBError("Falha ao deletar linhas da proposta", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctxTimeout, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar proposta no DB.", err)
		return errors.NewDBError("Falha ao deletar proposta", err)
	}

	var affected int64
	affected, err = result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar deleção de proposta", err)
	}
	if affected == 0 {
		err = errors.NewNotFoundError(fmt.Sprintf("Proposta com ID %s não encontrada.", id))
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao confirmar deleção de proposta", err)
	}

	r.logger.Info("Proposta deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// Dashboard agrega as contagens de propostas por estado em uma única
// passada na tabela.
func (r *ProposalRepository) Dashboard(ctx context.Context) (domain.ProposalDashboard, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'DRAFT'),
               COUNT(*) FILTER (WHERE status = 'FINALIZED'),
               COUNT(*) FILTER (WHERE status = 'APPROVED')
        FROM proposals`

	var dashboard domain.ProposalDashboard
	err := r.DB.QueryRowContext(ctxTimeout, query).Scan(
		&dashboard.Total, &dashboard.Draft, &dashboard.Finalized, &dashboard.Approved,
	)
	if err != nil {
		r.logger.Error("Falha ao agregar painel de propostas no DB.", err)
		return domain.ProposalDashboard{}, errors.NewDBError("Falha ao agregar painel de propostas", err)
	}

	return dashboard, nil
}
