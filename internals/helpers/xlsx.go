package helper

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// BuildSheet menulis satu sheet dengan header tebal lalu baris data.
func BuildSheet(sheet string, headers []string, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	for r, row := range rows {
		for i, v := range row {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, r+2), v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// SendXLSX mengirim workbook sebagai attachment.
func SendXLSX(c *fiber.Ctx, filename string, f *excelize.File) error {
	defer f.Close()
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return writeTo(c.Response().BodyWriter(), f)
}

func writeTo(w io.Writer, f *excelize.File) error {
	_, err := f.WriteTo(w)
	return err
}
