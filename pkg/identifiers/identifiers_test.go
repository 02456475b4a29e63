package identifiers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraderID(t *testing.T) {
	id, err := NewTraderID("TRADER-001")
	require.NoError(t, err)
	assert.Equal(t, "TRADER-001", id.String())
	assert.False(t, id.IsZero())
}

func TestNewTraderID_RequiresSeparator(t *testing.T) {
	_, err := NewTraderID("TRADER001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"-"`)
}

func TestNewTraderID_RejectsEmpty(t *testing.T) {
	for _, value := range []string{"", "   ", "\t"} {
		_, err := NewTraderID(value)
		assert.Error(t, err, "value %q", value)
	}
}

func TestIdentifierEquality(t *testing.T) {
	a, err := NewClientOrderID("O-19700101-001")
	require.NoError(t, err)
	b, err := NewClientOrderID("O-19700101-001")
	require.NoError(t, err)
	c, err := NewClientOrderID("O-19700101-002")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Usable as a map key.
	m := map[ClientOrderID]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestIdentifierTextRoundTrip(t *testing.T) {
	id, err := NewInstrumentID("ETHUSDT.BINANCE")
	require.NoError(t, err)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"ETHUSDT.BINANCE"`, string(data))

	var decoded InstrumentID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestIdentifierUnmarshalRejectsEmpty(t *testing.T) {
	var id VenueOrderID
	err := json.Unmarshal([]byte(`""`), &id)
	assert.Error(t, err)
	assert.True(t, id.IsZero())
}

func TestNonEmptyConstructors(t *testing.T) {
	_, err := NewStrategyID("")
	assert.Error(t, err)
	_, err = NewAccountID(" ")
	assert.Error(t, err)
	_, err = NewPositionID("")
	assert.Error(t, err)
	_, err = NewTradeID("")
	assert.Error(t, err)
	_, err = NewOrderListID("")
	assert.Error(t, err)
}
