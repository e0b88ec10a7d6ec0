package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var draftExportHeaders = []string{"#", "商品", "数量", "单价", "金额"}

// ExportService 草稿渲染导出：XLSX/CSV 渲染成功后推进草稿到 EXPORTED，
// 配置了对象存储时同时上传
type ExportService struct {
	draftSvc    *DraftService
	minioClient *minio.Client // 可为空
	bucketName  string
}

func NewExportService(draftSvc *DraftService, minioClient *minio.Client, bucketName string) *ExportService {
	return &ExportService{
		draftSvc:    draftSvc,
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// ExportResult 导出产物
type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	ObjectName  string `json:"object_name,omitempty"`
	Data        []byte `json:"-"`
}

// ExportXLSX 渲染供应商订单草稿为工作簿
func (s *ExportService) ExportXLSX(ctx context.Context, draftID string) (*ExportResult, error) {
	draft, err := s.draftSvc.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Order"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheet, "A1", "供应商")
	f.SetCellValue(sheet, "B1", draft.SupplierID)
	f.SetCellValue(sheet, "A2", "盘点单")
	f.SetCellValue(sheet, "B2", draft.SessionID)
	if draft.RequestedDeliveryDate != nil {
		f.SetCellValue(sheet, "A3", "要求到货日")
		f.SetCellValue(sheet, "B3", draft.RequestedDeliveryDate.Format("2006-01-02"))
	}

	headerRow := 5
	for i, h := range draftExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for idx, item := range draft.Items {
		row := headerRow + 1 + idx
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.Position+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Quantity)
		if item.UnitCost != nil {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), *item.UnitCost)
		}
		if item.LineTotal != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), *item.LineTotal)
		}
	}

	totalRow := headerRow + 1 + len(draft.Items)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", totalRow), draft.TotalQuantity)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), draft.TotalValue)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}

	result := &ExportResult{
		FileName:    fmt.Sprintf("order-%s-%s.xlsx", draft.SupplierID, time.Now().Format("20060102")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}
	return s.finish(ctx, draft, result)
}

// ExportCSV 渲染为CSV；gbk=true 时按GBK编码（给老版Excel直接打开用）
func (s *ExportService) ExportCSV(ctx context.Context, draftID string, gbk bool) (*ExportResult, error) {
	draft, err := s.draftSvc.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(draftExportHeaders); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	for _, item := range draft.Items {
		unitCost, lineTotal := "", ""
		if item.UnitCost != nil {
			unitCost = fmt.Sprintf("%.4f", *item.UnitCost)
		}
		if item.LineTotal != nil {
			lineTotal = fmt.Sprintf("%.2f", *item.LineTotal)
		}
		record := []string{
			fmt.Sprintf("%d", item.Position+1),
			item.ProductName,
			fmt.Sprintf("%.4f", item.Quantity),
			unitCost,
			lineTotal,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	data := buf.Bytes()
	if gbk {
		encoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), data)
		if err != nil {
			return nil, fmt.Errorf("encode gbk: %w", err)
		}
		data = encoded
	}

	result := &ExportResult{
		FileName:    fmt.Sprintf("order-%s-%s.csv", draft.SupplierID, time.Now().Format("20060102")),
		ContentType: "text/csv",
		Data:        data,
	}
	return s.finish(ctx, draft, result)
}

// finish 上传（如配置）并推进状态：首次成功导出 DRAFT → EXPORTED
func (s *ExportService) finish(ctx context.Context, draft *entity.SupplierOrderDraft, result *ExportResult) (*ExportResult, error) {
	if s.minioClient != nil {
		objectName := fmt.Sprintf("orders/%s/%s", time.Now().Format("2006/01/02"), result.FileName)
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName,
			bytes.NewReader(result.Data), int64(len(result.Data)),
			minio.PutObjectOptions{ContentType: result.ContentType})
		if err != nil {
			return nil, fmt.Errorf("upload export: %w", err)
		}
		result.ObjectName = objectName
	}

	if _, err := s.draftSvc.MarkExported(ctx, draft.ID); err != nil {
		return nil, err
	}
	return result, nil
}
