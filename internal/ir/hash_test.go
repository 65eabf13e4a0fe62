package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionIDDeterminism(t *testing.T) {
	args := IRObject{
		"product_id": IRString("1"),
		"quantity":   IRInt(2),
	}

	id1, err := ActionID("session-1", ActionSetQuantity, args, 1)
	require.NoError(t, err)
	id2, err := ActionID("session-1", ActionSetQuantity, args, 1)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestActionIDChangesWithInput(t *testing.T) {
	args := IRObject{"product_id": IRString("1")}

	base := MustActionID("session-1", ActionAddToCart, args, 1)

	assert.NotEqual(t, base, MustActionID("session-2", ActionAddToCart, args, 1), "session")
	assert.NotEqual(t, base, MustActionID("session-1", ActionAddToCart, args, 2), "seq")
	assert.NotEqual(t, base, MustActionID("session-1", ActionRemoveFromCart, args, 1), "type")
	assert.NotEqual(t, base, MustActionID("session-1", ActionAddToCart, IRObject{"product_id": IRString("2")}, 1), "args")
}

func TestOutcomeIDLinksAction(t *testing.T) {
	actionID := MustActionID("session-1", ActionSubmitCheckout, IRObject{}, 3)

	id1 := MustOutcomeID(actionID, CaseProcessing, IRObject{}, 3)
	id2 := MustOutcomeID(actionID, CaseRejected, IRObject{}, 3)

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte(`{"seq":1}`)

	assert.NotEqual(t, hashWithDomain(DomainAction, data), hashWithDomain(DomainOutcome, data))
}

func TestMustActionIDPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		MustActionID("s", ActionAddToCart, IRObject{"bad": nil}, 1)
	})
}
