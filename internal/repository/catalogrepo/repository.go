package catalogrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qwhomes/internal/domain"
	"qwhomes/internal/errors"
	"qwhomes/internal/pkg/cache"
	"qwhomes/internal/pkg/logger"
)

// selectionCacheKey é a chave de cache da consulta de seleção de produtos
// (família × subfamília), a consulta mais quente do modal de propostas.
const selectionCacheKey = "products:selection:%s:%s"

// CatalogRepository implementa a persistência do catálogo de mobiliário:
// produtos, famílias e subfamílias.
type CatalogRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewCatalogRepository cria e retorna uma nova instância do Repositório de Catálogo.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewCatalogRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const productColumns = `id, sku, name, description, height, length, width, price, discount,
        stock_quantity, status, family_id, sub_family_id, created_at, updated_at`

// scanProduct mapeia uma linha de produto para a struct de domínio.
func scanProduct(row interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description,
		&p.Height, &p.Length, &p.Width,
		&p.Price, &p.Discount,
		&p.StockQuantity, &p.Status,
		&p.FamilyID, &p.SubFamilyID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// SaveProduct insere um novo produto no catálogo.
func (r *CatalogRepository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.logger.Debug("Iniciando SaveProduct no repositório.", map[string]interface{}{"sku": product.SKU})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Status == "" {
		product.Status = domain.ProductActive
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
        INSERT INTO products (id, sku, name, description, height, length, width, price, discount,
                              stock_quantity, status, family_id, sub_family_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Height, product.Length, product.Width,
		product.Price, product.Discount,
		product.StockQuantity, product.Status,
		product.FamilyID, product.SubFamilyID,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao criar produto", err)
	}

	// Escrita invalida a consulta de seleção correspondente (Cache-Aside).
	r.invalidateSelection(ctxTimeout, product.FamilyID, product.SubFamilyID)

	r.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": product.ID, "sku": product.SKU})
	return product, nil
}

// FindProductByID busca um produto pelo ID.
func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto", err)
	}

	return product, nil
}

// FindAllProducts lista produtos com paginação e filtros opcionais.
func (r *CatalogRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	r.logger.Debug("Iniciando FindAllProducts no repositório.", map[string]interface{}{"page": filter.Page, "limit": filter.Limit})

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
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.SKU != "" {
		args = append(args, filter.SKU)
		where += fmt.Sprintf(" AND sku = $%d", len(args))
	}
	if filter.FamilyID != "" {
		args = append(args, filter.FamilyID)
		where += fmt.Sprintf(" AND family_id = $%d", len(args))
	}
	if filter.SubFamilyID != "" {
		args = append(args, filter.SubFamilyID)
		where += fmt.Sprintf(" AND sub_family_id = $%d", len(args))
	}
	if filter.ActiveOnly {
		args = append(args, domain.ProductActive)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar produtos no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao contar produtos", err)
	}

	args = append(args, filter.Limit, offset)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar produtos no DB.", err)
		return nil, 0, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear produto do DB.", err)
			return nil, 0, errors.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar produtos", err)
	}

	return products, total, nil
}

// FindProductsBySelection busca os produtos ativos de uma família ×
// subfamília, utilizando a estratégia Cache-Aside. É a consulta disparada
// a cada cascata completa no modal de propostas.
func (r *CatalogRepository) FindProductsBySelection(ctx context.Context, familyID, subFamilyID string) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(selectionCacheKey, familyID, subFamilyID)

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var products []domain.Product
		if json.Unmarshal([]byte(cachedData), &products) == nil {
			r.logger.Debug("Cache HIT na seleção de produtos.", map[string]interface{}{"key": key})
			return products, nil
		}
		// Payload corrompido: descarta e segue para o DB.
		_ = r.Cache.Delete(ctxTimeout, key)
	} else if err != cache.ErrCacheMiss {
		// Falha de cache não é fatal para a leitura; o DB responde.
		r.logger.Warn("Falha ao ler cache de seleção de produtos.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Cache MISS: busca no DB
	query := `SELECT ` + productColumns + `
        FROM products
        WHERE family_id = $1 AND sub_family_id = $2 AND status = $3
        ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, familyID, subFamilyID, domain.ProductActive)
	if err != nil {
		r.logger.Error("Falha ao buscar produtos por seleção no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar produtos da seleção", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear produto da seleção", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos da seleção", err)
	}

	// 3. Popula o cache para as próximas cascatas
	if payload, err := json.Marshal(products); err == nil {
		if err := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao popular cache de seleção de produtos.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	return products, nil
}

// UpdateProduct atualiza um produto existente no catálogo.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.logger.Debug("Iniciando UpdateProduct no repositório.", map[string]interface{}{"id": product.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// Carrega a seleção anterior para invalidar o cache antigo caso o
	// produto mude de família/subfamília.
	previous, err := r.FindProductByID(ctx, product.ID)
	if err != nil {
		return domain.Product{}, err
	}

	product.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE products
        SET sku = $2, name = $3, description = $4, height = $5, length = $6, width = $7,
            price = $8, discount = $9, stock_quantity = $10, status = $11,
            family_id = $12, sub_family_id = $13, updated_at = $14
        WHERE id = $1
        RETURNING created_at`

	err = r.DB.QueryRowContext(ctxTimeout, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Height, product.Length, product.Width,
		product.Price, product.Discount,
		product.StockQuantity, product.Status,
		product.FamilyID, product.SubFamilyID,
		product.UpdatedAt,
	).Scan(&product.CreatedAt)

	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não encontrado.", product.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	r.invalidateSelection(ctxTimeout, previous.FamilyID, previous.SubFamilyID)
	r.invalidateSelection(ctxTimeout, product.FamilyID, product.SubFamilyID)

	r.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": product.ID})
	return product, nil
}

// DeleteProduct remove um produto do catálogo.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando DeleteProduct no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	product, err := r.FindProductByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id); err != nil {
		r.logger.Error("Falha ao deletar produto no DB.", err)
		return errors.NewDBError("Falha ao deletar produto", err)
	}

	r.invalidateSelection(ctxTimeout, product.FamilyID, product.SubFamilyID)

	r.logger.Info("Produto deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// invalidateSelection remove do cache a consulta de seleção afetada por
// uma escrita de produto.
func (r *CatalogRepository) invalidateSelection(ctx context.Context, familyID, subFamilyID string) {
	key := fmt.Sprintf(selectionCacheKey, familyID, subFamilyID)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache de seleção de produtos.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
