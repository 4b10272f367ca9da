package proposalservice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	apperror "qwhomes/internal/errors"
)

// proposalSheet é a aba única da planilha exportada.
const proposalSheet = "Sheet1"

// ExportProposalExcel gera a planilha de uma proposta no diretório de
// exportação configurado e retorna o caminho do arquivo gerado.
// A planilha tem o cabeçalho da proposta seguido de uma linha por produto
// e o resumo de preços no rodapé.
func (s *Service) ExportProposalExcel(ctx context.Context, id string) (string, error) {
	s.logger.Debug("Iniciando exportação de proposta para Excel.", map[string]interface{}{"id": id})

	proposal, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return "", err
	}

	xlsx := excelize.NewFile()

	// Cabeçalho da proposta
	xlsx.SetCellValue(proposalSheet, "A1", "Proposta")
	xlsx.SetCellValue(proposalSheet, "B1", proposal.Name)
	xlsx.SetCellValue(proposalSheet, "A2", "Cliente")
	xlsx.SetCellValue(proposalSheet, "B2", proposal.ClientName)
	xlsx.SetCellValue(proposalSheet, "A3", "Tipo de Apartamento")
	xlsx.SetCellValue(proposalSheet, "B3", proposal.ApartmentName)
	xlsx.SetCellValue(proposalSheet, "A4", "Estado")
	xlsx.SetCellValue(proposalSheet, "B4", string(proposal.Status))

	// Tabela de produtos
	header := []string{"SKU", "Produto", "Quantidade", "Preço Unitário", "Total da Linha"}
	for i, title := range header {
		cell := fmt.Sprintf("%c6", 'A'+i)
		xlsx.SetCellValue(proposalSheet, cell, title)
	}

	row := 7
	for _, line := range proposal.Products {
		xlsx.SetCellValue(proposalSheet, fmt.Sprintf("A%d", row), line.SKU)
		xlsx.SetCellValue(proposalSheet, fmt.Sprintf("B%d", row), line.Name)
		xlsx.SetCellValue(proposalSheet, fmt.Sprintf("C%d", row), line.Quantity)
		xlsx.SetCellValue(proposalSheet, fmt.Sprintf("D%d", row), line.Price.StringFixed(2))
		xlsx.SetCellValue(proposalSheet, fmt.Sprintf("E%d", row), line.TotalPrice.StringFixed(2))
		row++
	}

	// Resumo de preços
	row++
	xlsx.SetCellValue(proposalSheet, fmt.Sprintf("D%d", row), "Desconto (%)")
	xlsx.SetCellValue(proposalSheet, fmt.Sprintf("E%d", row), proposal.Discount)
	row++
	xlsx.SetCellValue(proposalSheet, fmt.Sprintf("D%d", row), "Preço Final")
	xlsx.SetCellValue(proposalSheet, fmt.Sprintf("E%d", row), proposal.TotalPrice.StringFixed(2))

	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		s.logger.Error("Falha ao criar diretório de exportação.", err)
		return "", apperror.NewInternalError("Falha ao preparar diretório de exportação.", err)
	}

	filename := fmt.Sprintf("proposta_%s_%d.xlsx", proposal.ID, time.Now().Unix())
	path := filepath.Join(s.exportPath, filename)

	if err := xlsx.SaveAs(path); err != nil {
		s.logger.Error("Falha ao gravar planilha de proposta.", err)
		return "", apperror.NewInternalError("Falha ao gravar planilha de proposta.", err)
	}

	s.logger.Info("Proposta exportada para Excel.", map[string]interface{}{"id": proposal.ID, "path": path})
	return path, nil
}
