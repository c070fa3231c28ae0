package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"github.com/sangkips/festkasse-api/pkg/money"
	"github.com/sangkips/festkasse-api/pkg/printer"
)

// SlipDateLayout is the date format on pickup slips
const SlipDateLayout = "02.01.2006 15:04"

// StationBill is the part of a receipt collected at one pickup station
type StationBill struct {
	GroupID  string
	Items    []entity.ReceiptItem
	SumCents int64
}

// SplitBill partitions items by group. Stations appear in the order their
// first item appears; items keep their order within a station.
func SplitBill(items []entity.ReceiptItem) []StationBill {
	var bills []StationBill
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.GroupID]
		if !ok {
			i = len(bills)
			index[item.GroupID] = i
			bills = append(bills, StationBill{GroupID: item.GroupID})
		}
		bills[i].Items = append(bills[i].Items, item)
		bills[i].SumCents += item.LineTotalCents
	}

	return bills
}

// SlipLine is one product row on a slip
type SlipLine struct {
	Qty            int
	Name           string
	LineTotalCents int64
}

// Slip holds everything printed on one pickup slip
type Slip struct {
	EventName   string
	GroupName   string
	ReceiptCode string
	When        time.Time
	Lines       []SlipLine
	SumCents    int64
	PaymentType enum.PaymentType
}

// SlipLines converts receipt items to slip rows
func SlipLines(items []entity.ReceiptItem) []SlipLine {
	lines := make([]SlipLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, SlipLine{
			Qty:            item.Qty,
			Name:           item.ProductName,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return lines
}

// RenderPayload renders the slip as 32-column plain text. The result is stored
// with the print job and is what the operator hands out when printing fails.
func RenderPayload(slip Slip) string {
	sheet := printer.NewSheet(printer.DefaultWidth)

	sheet.Center(strings.ToUpper(slip.EventName)).
		Center(strings.ToUpper("ABHOLSTATION: " + slip.GroupName)).
		Blank().
		Line("Datum/Zeit: " + slip.When.Format(SlipDateLayout)).
		Line("Bon-Nr.:   " + slip.ReceiptCode).
		Rule('-')

	for _, line := range slip.Lines {
		sheet.Columns(fmt.Sprintf("%d x %s", line.Qty, line.Name), money.Euro(line.LineTotalCents))
	}

	sheet.Rule('-').
		Columns("SUMME:", money.Euro(slip.SumCents)).
		Line("BEZAHLT - " + slip.PaymentType.SlipLabel()).
		Blank()

	return sheet.String()
}
