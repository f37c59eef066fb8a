package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBillExporter_Export(t *testing.T) {
	env := loadFixtureCatalog(t)
	bills, err := env.catalog.Bills.List(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	now := time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, NewBillExporter(testLogger()).Export(&buf, bills, now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{BillSheetName}, f.GetSheetList())

	rows, err := f.GetRows(BillSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, billHeaders, rows[0])

	first := rows[1]
	assert.Equal(t, pendingBill.String(), first[0])
	assert.Equal(t, bachKhoaRoom.String(), first[1])
	assert.Equal(t, "09/2024", first[3])
	assert.Equal(t, "3500000", first[4])
	assert.Equal(t, "525000", first[7])
	assert.Equal(t, "300000", first[10])
	assert.Equal(t, "4525000", first[13])
	assert.Equal(t, "overdue", first[14])
	assert.Equal(t, "2024-10-05", first[15])

	second := rows[2]
	assert.Equal(t, "08/2024", second[3])
	assert.Equal(t, "paid", second[14])
	assert.Equal(t, "2024-09-03", second[16])
}

func TestBillExporter_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBillExporter(testLogger()).Export(&buf, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(BillSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(billHeaders))
}
