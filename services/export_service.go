package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"skyview-backend/models"
	"skyview-backend/utils"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Booking ID", "Created", "Name", "Email", "Phone", "Address", "Service", "Frequency",
	"Date", "Time", "Flat", "Bedrooms", "Bathrooms", "Additional Services",
	"Special Instructions", "Status", "Remarks", "Payment Amount", "Payment Type",
}

// WriteBookingsWorkbook renders bookings as an .xlsx workbook with one row per booking.
func WriteBookingsWorkbook(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, title := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return fmt.Errorf("write header %q: %w", title, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return fmt.Errorf("header cell: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, b := range bookings {
		row := []interface{}{
			b.ID.String(),
			b.CreatedAt.Format("2006-01-02 15:04"),
			b.Name,
			b.Email,
			b.Phone,
			b.Address,
			humanize(b.ServiceType),
			b.Frequency,
			utils.FormatDate(b.PreferredDate),
			b.PreferredTime,
			deref(b.FlatType),
			b.Bedrooms,
			b.Bathrooms,
			additionalServicesText(b.AdditionalServices),
			deref(b.SpecialInstructions),
			string(b.Status),
			deref(b.Remarks),
			"",
			"",
		}
		if b.PaymentAmount != nil {
			row[17] = *b.PaymentAmount
		}
		if b.PaymentType != nil {
			row[18] = string(*b.PaymentType)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell: %w", i+2, err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
