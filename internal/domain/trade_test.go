package domain

import "testing"

func newTwoPartyTrade() *Trade {
	return &Trade{
		TradeID: "TRD-1",
		A:       Participant{CharacterID: "char1", Name: "P1"},
		B:       Participant{CharacterID: "char2", Name: "P2"},
		Status:  TradeStatusActive,
	}
}

func TestTrade_Side(t *testing.T) {
	tr := newTwoPartyTrade()

	if p := tr.Side("char1"); p == nil || p.Name != "P1" {
		t.Fatalf("Side(char1) = %+v, want participant P1", p)
	}
	if p := tr.Side("char2"); p == nil || p.Name != "P2" {
		t.Fatalf("Side(char2) = %+v, want participant P2", p)
	}
	if p := tr.Side("stranger"); p != nil {
		t.Fatalf("Side(stranger) = %+v, want nil", p)
	}
}

func TestTrade_SideReturnsMutableSlot(t *testing.T) {
	tr := newTwoPartyTrade()

	tr.Side("char1").Confirmed = true
	if !tr.A.Confirmed {
		t.Fatal("mutation through Side did not reach the participant slot")
	}
}

func TestTrade_Other(t *testing.T) {
	tr := newTwoPartyTrade()

	if p := tr.Other("char1"); p.CharacterID != "char2" {
		t.Fatalf("Other(char1) = %s, want char2", p.CharacterID)
	}
	if p := tr.Other("char2"); p.CharacterID != "char1" {
		t.Fatalf("Other(char2) = %s, want char1", p.CharacterID)
	}
}
