package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

func TestRenderHistoryReverseOrderNoMutation(t *testing.T) {
	engine := newTestEngine()
	history := models.StatusHistory{
		{Status: StatusReceivedFromSubdivision, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ReferenceNumber: strPtr("SD-1")},
		{Status: StatusSentToMS, Date: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), ReferenceNumber: strPtr("L-7"), ApprovedAmount: amountPtr(5000)},
		{Status: StatusOfficeOrder, Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), ReferenceNumber: strPtr("OO-2"), ApprovedAmount: amountPtr(123456), Remarks: "sanctioned"},
	}
	bill := &models.Bill{StatusHistory: history}

	entries := engine.RenderHistory(bill)
	require.Len(t, entries, 3)

	require.Equal(t, StatusOfficeOrder, entries[0].Label)
	require.Equal(t, "20/03/2024", entries[0].Date)
	require.Equal(t, "sanctioned", entries[0].Remarks)
	require.Equal(t, []FieldValue{
		{Label: "Office Order Number", Value: "OO-2"},
		{Label: "Sanctioned Amount", Value: "₹1,23,456.00"},
	}, entries[0].Fields)

	require.Equal(t, StatusSentToMS, entries[1].Label)
	require.Equal(t, StatusReceivedFromSubdivision, entries[2].Label)

	// input history untouched
	require.Equal(t, history, bill.StatusHistory)
	require.Equal(t, StatusReceivedFromSubdivision, bill.StatusHistory[0].Status)
}

func TestRenderHistorySplitsLabelDetail(t *testing.T) {
	engine := newTestEngine()
	bill := &models.Bill{
		StatusHistory: models.StatusHistory{
			{
				Status:          StatusReceivedFromSubdivision + " - " + models.SubDivisionSewerage1,
				Date:            time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				ReferenceNumber: strPtr("SD-9"),
			},
		},
	}

	entries := engine.RenderHistory(bill)
	require.Len(t, entries, 1)
	require.Equal(t, StatusReceivedFromSubdivision, entries[0].Label)
	require.Equal(t, models.SubDivisionSewerage1, entries[0].Detail)
	// fields resolve through the primary label
	require.Equal(t, []FieldValue{{Label: "Reference Number", Value: "SD-9"}}, entries[0].Fields)
}

func TestRenderHistoryUnknownStatusKeepsLabel(t *testing.T) {
	engine := newTestEngine()
	bill := &models.Bill{
		StatusHistory: models.StatusHistory{
			{Status: "Legacy Entry", Date: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	entries := engine.RenderHistory(bill)
	require.Len(t, entries, 1)
	require.Equal(t, "Legacy Entry", entries[0].Label)
	require.Empty(t, entries[0].Fields)
}

func TestFormatCurrencyIndianGrouping(t *testing.T) {
	cases := map[float64]string{
		0:          "₹0.00",
		5000:       "₹5,000.00",
		12000:      "₹12,000.00",
		123456:     "₹1,23,456.00",
		1234567.5:  "₹12,34,567.50",
		987:        "₹987.00",
		10000000:   "₹1,00,00,000.00",
		1234567890: "₹1,23,45,67,890.00",
	}
	for amount, want := range cases {
		require.Equal(t, want, FormatCurrency(amount))
	}
	require.Equal(t, "-₹500.00", FormatCurrency(-500))
}
