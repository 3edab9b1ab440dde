package domain

import (
	"encoding/json"
	"testing"
)

func TestTransactionTypeStorageValues(t *testing.T) {
	if got := TypeRegular.StorageValue(); got != "biasa" {
		t.Fatalf("regular storage value = %q", got)
	}
	if got := TypeClearance.StorageValue(); got != "lelang" {
		t.Fatalf("clearance storage value = %q", got)
	}
}

func TestParseTransactionType(t *testing.T) {
	for raw, want := range map[string]TransactionType{
		"biasa":  TypeRegular,
		"lelang": TypeClearance,
	} {
		got, err := ParseTransactionType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q = %v, want %v", raw, got, want)
		}
	}

	if _, err := ParseTransactionType("refund"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestTransactionTypeJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(TypeClearance)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `"lelang"` {
		t.Fatalf("marshal = %s", payload)
	}

	var parsed TransactionType
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed != TypeClearance {
		t.Fatalf("round trip = %v", parsed)
	}
}

func TestLineItemsEncodeDecode(t *testing.T) {
	items := []LineItem{
		{SKU: "SKU-A", Name: "Produk A", UnitPrice: 2500, Qty: 2, Subtotal: 5000},
	}

	details, err := EncodeLineItems(items)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeLineItems(details)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != items[0] {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeLineItemsMalformed(t *testing.T) {
	if _, err := DecodeLineItems("legacy free text"); err == nil {
		t.Fatal("expected decode error for non-JSON details")
	}
}
