package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"retifica/internal/service/workflow"
	"retifica/internal/storage"
)

type GenerateExcelStorage interface {
	ListOrders(ctx context.Context, filter storage.OrderFilter) ([]storage.ServiceOrder, error)
	ListClients(ctx context.Context, search string) ([]storage.Client, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

const sheet = "Ordens de Serviço"

var baseHeaders = []string{"OS", "Cliente", "Prioridade", "Status", "Abertura", "Prazo", "Progresso %"}

func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter storage.OrderFilter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	var (
		orders  []storage.ServiceOrder
		clients []storage.Client
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		orders, err = g.storage.ListOrders(gCtx, filter)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		clients, err = g.storage.ListClients(gCtx, "")
		if err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}

	// шапка: базовые колонки, затем по колонке на каждый этап
	stages := workflow.Stages()
	for i, name := range baseHeaders {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	for i, si := range stages {
		f.SetCellValue(sheet, cellName(len(baseHeaders)+i+1, 1), si.Name)
	}
	lastCol := len(baseHeaders) + len(stages)
	f.SetCellStyle(sheet, "A1", cellName(lastCol, 1), headerStyle)

	for rowIdx, o := range orders {
		row := rowIdx + 2

		client := clientNames[o.ClientID]
		if client == "" {
			client = o.ClientID
		}
		due := "-"
		if o.DueAt != nil {
			due = o.DueAt.Format("02/01/2006")
		}

		f.SetCellValue(sheet, cellName(1, row), orderLabel(o))
		f.SetCellValue(sheet, cellName(2, row), client)
		f.SetCellValue(sheet, cellName(3, row), string(o.Priority))
		f.SetCellValue(sheet, cellName(4, row), string(o.Status))
		f.SetCellValue(sheet, cellName(5, row), o.OpenedAt.Format("02/01/2006"))
		f.SetCellValue(sheet, cellName(6, row), due)
		f.SetCellValue(sheet, cellName(7, row), workflow.Progress(o))

		for i, si := range stages {
			f.SetCellValue(sheet, cellName(len(baseHeaders)+i+1, row), stageCell(o, si.ID))
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "B", 28)
	f.SetColWidth(sheet, "C", cellCol(lastCol), 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func orderLabel(o storage.ServiceOrder) string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

// stageCell: состояние этапа для ячейки отчёта.
func stageCell(o storage.ServiceOrder, stage storage.Stage) string {
	if !workflow.IsRelevant(stage, o.Services) {
		return "-"
	}
	sp := o.Stages[stage]
	switch {
	case sp.Completed:
		return "Concluído"
	case sp.Started:
		return "Em andamento"
	default:
		return "Pendente"
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func cellCol(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
