package queue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body := `{"type":"booking.confirmed","booking_id":"b-1","space_id":"s-1","space_title":"Roof",
		"space_location":"Ikeja","owner_id":"o-1","advertiser_id":"a-1","start_date":"2025-04-01",
		"end_date":"2025-04-10","total_amount":10000,"booking_status":"confirmed","payment_status":"unpaid",
		"occurred_at":"2025-03-01T09:00:00Z"}`

	require.NoError(t, HandleMessage(dir, []byte(body)))
	require.NoError(t, HandleMessage(dir, []byte(body)))

	raw, err := os.ReadFile(filepath.Join(dir, "booking.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`[2025-03-01T09:00:00Z] booking.confirmed | booking_id=b-1 | space_id=s-1 | space="Roof" | location="Ikeja" | owner_id=o-1 | advertiser_id=a-1 | dates=2025-04-01..2025-04-10 | total=10000.00 | status=confirmed/unpaid`,
		lines[0])
}

func TestHandleMessage_Rejects(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte(`not json`)))
	assert.Error(t, HandleMessage(dir, []byte(`{"type":"booking.paid"}`)))
	_, err := os.Stat(filepath.Join(dir, "booking.log"))
	assert.True(t, os.IsNotExist(err))
}
