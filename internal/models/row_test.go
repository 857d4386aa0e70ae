package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRowUnmarshalKeepsKeyOrder(t *testing.T) {
	var r Row
	if err := json.Unmarshal([]byte(`{"Qty":3,"ProductName":"Tea","Price":"2.50","file_id":7}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"Qty", "ProductName", "Price", "file_id"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if got := r.String("Qty"); got != "3" {
		t.Fatalf("Qty = %q", got)
	}
	if got := r.String("Price"); got != "2.50" {
		t.Fatalf("Price = %q", got)
	}
}

func TestRowMarshalOmitsUnsetColumns(t *testing.T) {
	r := NewRow("A", "B", "C")
	r.Set("A", "1")
	r.Set("B", "2")

	blob, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(blob) != `{"A":"1","B":"2"}` {
		t.Fatalf("unexpected JSON %s", blob)
	}
	if !r.Has("C") {
		t.Fatal("expected C to remain a column")
	}
	if _, ok := r.Get("C"); ok {
		t.Fatal("expected C to be unset")
	}
}

func TestRowRoundTripPreservesNumbers(t *testing.T) {
	in := `[{"ProductID":12,"Price":19.99,"Qty":0}]`
	var rows []Row
	if err := json.Unmarshal([]byte(in), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got %s want %s", out, in)
	}
}

func TestRowPrepend(t *testing.T) {
	r := NewRow()
	r.Set("Name", "x")
	r.Set("ProductID", "old")
	r.Prepend("ProductID", "p-1")

	if got := r.Keys(); !reflect.DeepEqual(got, []string{"ProductID", "Name"}) {
		t.Fatalf("keys = %v", got)
	}
	if r.String("ProductID") != "p-1" {
		t.Fatalf("ProductID = %q", r.String("ProductID"))
	}
}

func TestFileIDAcceptsNumberAndString(t *testing.T) {
	var files []CsvFile
	if err := json.Unmarshal([]byte(`[{"id":4,"file_name":"a.csv"},{"id":"abc","file_name":"b.csv"}]`), &files); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if files[0].ID != "4" || files[1].ID != "abc" {
		t.Fatalf("unexpected ids %+v", files)
	}
}

func TestRowUnsetKeepsColumnOrder(t *testing.T) {
	r := NewRow("A", "B")
	r.Set("A", "1")
	r.Set("B", "2")
	r.Unset("A")

	if got := r.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("keys = %v", got)
	}
	if _, ok := r.Get("A"); ok {
		t.Fatal("expected A to be unset")
	}
	if !r.Has("A") {
		t.Fatal("expected A to remain a column")
	}
}

func TestRowCell(t *testing.T) {
	var r Row
	if err := json.Unmarshal([]byte(`{"Price":2.5,"Qty":3,"Note":null}`), &r); err != nil {
		t.Fatal(err)
	}
	r.Set("Barcode", "111")
	r.Unset("Barcode")

	cases := map[string]string{"Price": "$2.5", "Qty": "3", "Note": "", "Barcode": "", "Missing": ""}
	for key, want := range cases {
		if got := r.Cell(key); got != want {
			t.Errorf("Cell(%q) = %q, want %q", key, got, want)
		}
	}
}
