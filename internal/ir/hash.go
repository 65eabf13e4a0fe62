package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainAction  = "ministore/action/v1"
	DomainOutcome = "ministore/outcome/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ActionID computes the content-addressed ID for an action.
// The ID is stable across replays given the same session, type, args and seq.
func ActionID(session string, typ ActionType, args IRObject, seq int64) (string, error) {
	obj := IRObject{
		"session": IRString(session),
		"type":    IRString(string(typ)),
		"args":    args,
		"seq":     IRInt(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ActionID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainAction, canonical), nil
}

// OutcomeID computes the content-addressed ID for an outcome.
func OutcomeID(actionID, outcomeCase string, result IRObject, seq int64) (string, error) {
	obj := IRObject{
		"action_id": IRString(actionID),
		"case":      IRString(outcomeCase),
		"result":    result,
		"seq":       IRInt(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainOutcome, canonical), nil
}

// MustActionID is like ActionID but panics on error.
func MustActionID(session string, typ ActionType, args IRObject, seq int64) string {
	id, err := ActionID(session, typ, args, seq)
	if err != nil {
		panic(err)
	}
	return id
}

// MustOutcomeID is like OutcomeID but panics on error.
func MustOutcomeID(actionID, outcomeCase string, result IRObject, seq int64) string {
	id, err := OutcomeID(actionID, outcomeCase, result, seq)
	if err != nil {
		panic(err)
	}
	return id
}
