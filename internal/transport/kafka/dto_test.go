package kafka

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToDomain_TrimsFields(t *testing.T) {
	t.Parallel()

	collected := decimal.RequireFromString("12.34")
	ev := ToDomain(EventDTO{
		OrderID:   "  ord-1 ",
		Status:    " delivered ",
		Collected: &collected,
		BatchRef:  " b-1 ",
	})

	require.Equal(t, "ord-1", ev.OrderID)
	require.Equal(t, "delivered", ev.Status)
	require.Equal(t, "b-1", ev.BatchRef)
	require.NotNil(t, ev.Collected)
	require.True(t, ev.Collected.Equal(collected))
}

func TestEventDTO_DecodesCollectedAmount(t *testing.T) {
	t.Parallel()

	var dto EventDTO
	err := json.Unmarshal([]byte(`{"order_id":"o1","status":"delivered","collected_amount":"99.50"}`), &dto)
	require.NoError(t, err)
	require.NotNil(t, dto.Collected)
	require.True(t, dto.Collected.Equal(decimal.RequireFromString("99.50")))

	var without EventDTO
	err = json.Unmarshal([]byte(`{"order_id":"o2","status":"failed"}`), &without)
	require.NoError(t, err)
	require.Nil(t, without.Collected)
}
