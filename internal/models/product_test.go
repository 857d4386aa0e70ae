package models

import (
	"errors"
	"testing"
)

func TestDraftPriceIsStoredWithoutSymbol(t *testing.T) {
	var d ProductDraft
	d, err := d.With(ColPrice, "5")
	if err != nil {
		t.Fatal(err)
	}
	if d.DisplayPrice() != "$5" {
		t.Fatalf("display = %q", d.DisplayPrice())
	}

	d, _ = d.With(ColPrice, d.DisplayPrice()+"0")
	if d.Price != "50" {
		t.Fatalf("stored = %q", d.Price)
	}
	if d.DisplayPrice() != "$50" {
		t.Fatalf("display = %q", d.DisplayPrice())
	}
}

func TestDraftWithKeepsOtherFields(t *testing.T) {
	d := ProductDraft{ProductName: "Tea", Price: "2"}
	d, err := d.With(ColQty, "4")
	if err != nil {
		t.Fatal(err)
	}
	if d.ProductName != "Tea" || d.Price != "2" || d.Qty != "4" {
		t.Fatalf("unexpected draft %+v", d)
	}
}

func TestDraftNumericFields(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "integer", input: "12", want: "12"},
		{name: "decimal", input: "1.5", want: "1.5"},
		{name: "letters", input: "12a", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ProductDraft{}.With(ColBarcode, tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if d.Barcode != tc.want {
				t.Fatalf("got %q want %q", d.Barcode, tc.want)
			}
		})
	}
}

func TestDraftUnknownField(t *testing.T) {
	_, err := ProductDraft{}.With("Colour", "red")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestProductOutOfStock(t *testing.T) {
	cases := []struct {
		qty  any
		want bool
	}{
		{qty: 0, want: true},
		{qty: "0", want: true},
		{qty: "3", want: false},
		{qty: nil, want: false},
	}
	for _, tc := range cases {
		r := NewRow()
		if tc.qty != nil {
			r.Set(ColQty, tc.qty)
		}
		if got := ProductFromRow(r).OutOfStock(); got != tc.want {
			t.Fatalf("qty %v: got %v want %v", tc.qty, got, tc.want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	cases := map[string]struct {
		n  int
		ok bool
	}{
		"3":      {3, true},
		" 7 pcs": {7, true},
		"3.9":    {3, true},
		"-2":     {-2, true},
		"abc":    {0, false},
		"":       {0, false},
	}
	for in, want := range cases {
		n, ok := LeadingInt(in)
		if n != want.n || ok != want.ok {
			t.Fatalf("LeadingInt(%q) = %d,%v want %d,%v", in, n, ok, want.n, want.ok)
		}
	}
}

func TestNumericPrefix(t *testing.T) {
	cases := map[string]bool{
		"":     true,
		"-":    true,
		"+.":   true,
		"1e":   true,
		"1e-":  true,
		"2.5":  true,
		"x":    false,
		"1-":   false,
		"1e5e": false,
		"e5":   false,
	}
	for input, want := range cases {
		if got := NumericPrefix(input); got != want {
			t.Errorf("NumericPrefix(%q) = %v, want %v", input, got, want)
		}
	}
}
