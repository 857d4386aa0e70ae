package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/MMHameed52/Inventory-Tracker/internal/api"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

type call struct {
	Method string
	Path   string
	Body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{Method: req.Method, Path: req.URL.Path, Body: string(body)})
}

func (r *recorder) all() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// newBackend serves routes keyed by "METHOD /path" and records every call.
func newBackend(t *testing.T, routes map[string]string) (*api.Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, srv.Client()), rec
}

type notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, message)
}

func (n *notices) list() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(backend Backend, opts ...Option) (*Controller, *notices) {
	n := &notices{}
	opts = append([]Option{WithLogger(quietLogger()), WithNotifier(n)}, opts...)
	return New(backend, opts...), n
}

const stockRows = `[{"ProductID":1,"file_id":3,"ProductName":"Tea","Barcode":"111","Price":"2.50","Qty":5},` +
	`{"ProductID":2,"file_id":3,"ProductName":"Rice","Barcode":"222","Price":"4","Qty":0}]`

func TestLoadCsvList(t *testing.T) {
	client, _ := newBackend(t, map[string]string{
		"GET /csv-list": `[{"id":3,"file_name":"stock.csv"}]`,
	})
	c, _ := newController(client)

	s, err := c.LoadCsvList(context.Background())
	if err != nil {
		t.Fatalf("LoadCsvList: %v", err)
	}
	if s.Loading {
		t.Fatal("loading should be cleared")
	}
	if len(s.CsvList) != 1 || s.CsvList[0].ID != "3" || s.CsvList[0].FileName != "stock.csv" {
		t.Fatalf("unexpected list %+v", s.CsvList)
	}
}

func TestLoadCsvListFailureLeavesListEmpty(t *testing.T) {
	client, rec := newBackend(t, map[string]string{})
	c, n := newController(client)

	s, err := c.LoadCsvList(context.Background())
	if kind, ok := api.KindOf(err); !ok || kind != api.KindStatus {
		t.Fatalf("expected status error, got %v", err)
	}
	if s.Loading || len(s.CsvList) != 0 {
		t.Fatalf("unexpected state %+v", s)
	}
	if len(rec.all()) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(rec.all()))
	}
	if len(n.list()) != 0 {
		t.Fatalf("failures must not notify, got %v", n.list())
	}
}

func TestSelectCsvReplacesRowsAndHeaders(t *testing.T) {
	client, _ := newBackend(t, map[string]string{"GET /csv-data/3": stockRows})
	c, _ := newController(client)

	s, err := c.SelectCsv(context.Background(), "3")
	if err != nil {
		t.Fatalf("SelectCsv: %v", err)
	}
	want := []string{"ProductID", "file_id", "ProductName", "Barcode", "Price", "Qty"}
	if !reflect.DeepEqual(s.HeaderKeys, want) {
		t.Fatalf("headers = %v", s.HeaderKeys)
	}
	if len(s.SelectedCsvData) != 2 || s.SelectedFileID != "3" {
		t.Fatalf("unexpected state %+v", s)
	}
	products := s.Products()
	if products[0].OutOfStock() || !products[1].OutOfStock() {
		t.Fatalf("unexpected stock flags %+v", products)
	}
}

func TestSelectCsvEmptyResponseKeepsSelection(t *testing.T) {
	client, _ := newBackend(t, map[string]string{
		"GET /csv-data/3": stockRows,
		"GET /csv-data/4": `[]`,
	})
	c, _ := newController(client)

	before, err := c.SelectCsv(context.Background(), "3")
	if err != nil {
		t.Fatal(err)
	}
	after, err := c.SelectCsv(context.Background(), "4")
	if err != nil {
		t.Fatalf("empty response should not fail: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed on empty response:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSelectCsvFailureKeepsState(t *testing.T) {
	client, _ := newBackend(t, map[string]string{"GET /csv-data/3": stockRows})
	c, _ := newController(client)

	before, _ := c.SelectCsv(context.Background(), "3")
	after, err := c.SelectCsv(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatal("state changed on failure")
	}
}

func TestSelectCsvStrictSchema(t *testing.T) {
	mixed := `[{"A":"1","B":"2"},{"B":"3","A":"4"},{"A":"5"}]`
	client, _ := newBackend(t, map[string]string{"GET /csv-data/1": mixed})

	lenient, _ := newController(client)
	s, err := lenient.SelectCsv(context.Background(), "1")
	if err != nil || len(s.SelectedCsvData) != 3 {
		t.Fatalf("lenient mode should accept rows, err=%v", err)
	}

	strict, _ := newController(client, WithStrictSchema(true))
	s, err = strict.SelectCsv(context.Background(), "1")
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
	if mismatch.Index != 2 {
		t.Fatalf("mismatch index = %d", mismatch.Index)
	}
	if len(s.SelectedCsvData) != 0 {
		t.Fatal("strict failure should not change state")
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stock.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadCsv(t *testing.T) {
	client, rec := newBackend(t, map[string]string{
		"GET /csv-list":    `[{"id":1,"file_name":"old.csv"}]`,
		"POST /upload-csv": `{"fileId":2}`,
	})
	c, n := newController(client)
	if _, err := c.LoadCsvList(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.SetFile(writeCSV(t, "ProductName,Qty\nTea,4\n\n"))
	s, err := c.UploadCsv(context.Background())
	if err != nil {
		t.Fatalf("UploadCsv: %v", err)
	}

	if !reflect.DeepEqual(s.HeaderKeys, []string{"ProductName", "Qty"}) {
		t.Fatalf("headers = %v", s.HeaderKeys)
	}
	if len(s.CsvList) != 2 || s.CsvList[1] != (models.CsvFile{ID: "2", FileName: "stock.csv"}) {
		t.Fatalf("unexpected list %+v", s.CsvList)
	}
	if got := n.list(); !reflect.DeepEqual(got, []string{MsgUploaded}) {
		t.Fatalf("notices = %v", got)
	}

	calls := rec.all()
	upload := calls[len(calls)-1]
	var body struct {
		Array    []map[string]string `json:"array"`
		FileName string              `json:"fileName"`
	}
	if err := json.Unmarshal([]byte(upload.Body), &body); err != nil {
		t.Fatal(err)
	}
	if body.FileName != "stock.csv" || len(body.Array) != 1 || body.Array[0]["Qty"] != "4" {
		t.Fatalf("unexpected upload body %s", upload.Body)
	}
}

func TestUploadFailureKeepsParsedHeaders(t *testing.T) {
	client, _ := newBackend(t, map[string]string{})
	c, n := newController(client)

	c.SetFile(writeCSV(t, "A,B\n1,2\n"))
	s, err := c.UploadCsv(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(s.HeaderKeys, []string{"A", "B"}) {
		t.Fatalf("headers = %v", s.HeaderKeys)
	}
	if len(s.CsvList) != 0 || len(n.list()) != 0 {
		t.Fatalf("unexpected state %+v notices %v", s, n.list())
	}
}

func TestUploadWithoutFile(t *testing.T) {
	client, rec := newBackend(t, map[string]string{})
	c, _ := newController(client)

	if _, err := c.UploadCsv(context.Background()); !errors.Is(err, ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Fatal("no request expected")
	}
}

func TestAppendProductDoesNotRefresh(t *testing.T) {
	client, rec := newBackend(t, map[string]string{
		"GET /csv-data/3":    stockRows,
		"POST /append-csv/3": `{"message":"ok"}`,
	})
	c, n := newController(client)

	before, _ := c.SelectCsv(context.Background(), "3")
	c.UpdateDraftField(models.ColProductName, "Coffee")
	c.UpdateDraftField(models.ColPrice, "5")
	c.UpdateDraftField(models.ColQty, "2")

	s, err := c.AppendProduct(context.Background())
	if err != nil {
		t.Fatalf("AppendProduct: %v", err)
	}
	if !reflect.DeepEqual(s.SelectedCsvData, before.SelectedCsvData) {
		t.Fatal("rows should not change after append")
	}
	if got := n.list(); !reflect.DeepEqual(got, []string{MsgAppended}) {
		t.Fatalf("notices = %v", got)
	}

	calls := rec.all()
	if len(calls) != 2 {
		t.Fatalf("expected select + append, got %+v", calls)
	}
	if strings.Contains(calls[1].Body, "$") {
		t.Fatalf("price sent with currency symbol: %s", calls[1].Body)
	}
	if calls[1].Body != `{"array":[{"ProductName":"Coffee","Barcode":"","Price":"5","Qty":"2"}]}` {
		t.Fatalf("unexpected body %s", calls[1].Body)
	}
}

func TestAppendProductWithoutSelection(t *testing.T) {
	client, rec := newBackend(t, map[string]string{})
	c, _ := newController(client)

	if _, err := c.AppendProduct(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Fatal("no request expected")
	}
}

func TestPriceFieldDisplaysSymbol(t *testing.T) {
	c, _ := newController(nil)

	s, err := c.UpdateDraftField(models.ColPrice, "5")
	if err != nil {
		t.Fatal(err)
	}
	if s.Draft.DisplayPrice() != "$5" || s.Draft.Price != "5" {
		t.Fatalf("unexpected draft %+v", s.Draft)
	}

	s, _ = c.UpdateDraftField(models.ColPrice, "$7.5")
	if s.Draft.Price != "7.5" {
		t.Fatalf("stored price = %q", s.Draft.Price)
	}
	if _, err := c.UpdateDraftField("Colour", "red"); !errors.Is(err, models.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSellProductRejectsExcessQuantity(t *testing.T) {
	client, rec := newBackend(t, map[string]string{"GET /csv-data/3": stockRows})
	c, n := newController(client)
	c.SelectCsv(context.Background(), "3")

	var asked string
	prompter := PromptFunc(func(msg string) (string, bool) {
		asked = msg
		return "9", true
	})

	_, err := c.SellProduct(context.Background(), 1, 5, "2.50", prompter)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if asked != "Enter quantity to sell (Available: 5)" {
		t.Fatalf("prompt = %q", asked)
	}
	if got := n.list(); !reflect.DeepEqual(got, []string{MsgInvalidQuantity}) {
		t.Fatalf("notices = %v", got)
	}
	if calls := rec.all(); len(calls) != 1 {
		t.Fatalf("no sale request expected, got %+v", calls)
	}
}

func TestSellProductSendsSaleAndRefreshes(t *testing.T) {
	client, rec := newBackend(t, map[string]string{
		"GET /csv-data/3":    stockRows,
		"POST /sell-product": `{"message":"sold"}`,
	})
	c, n := newController(client)
	if _, err := c.SelectCsv(context.Background(), "3"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SellProduct(context.Background(), 1, 5, "$5", Answer("3")); err != nil {
		t.Fatalf("SellProduct: %v", err)
	}

	calls := rec.all()[1:]
	if len(calls) != 2 {
		t.Fatalf("expected sale + refresh, got %+v", calls)
	}
	if calls[0].Method != http.MethodPost || calls[0].Path != "/sell-product" {
		t.Fatalf("unexpected first call %+v", calls[0])
	}
	if calls[0].Body != `{"productId":1,"quantityToSell":3,"price":5}` {
		t.Fatalf("unexpected sale body %s", calls[0].Body)
	}
	if calls[1].Method != http.MethodGet || calls[1].Path != "/csv-data/3" {
		t.Fatalf("unexpected refresh %+v", calls[1])
	}
	if got := n.list(); !reflect.DeepEqual(got, []string{MsgSold}) {
		t.Fatalf("notices = %v", got)
	}
}

func TestValidateQuantity(t *testing.T) {
	cases := []struct {
		name      string
		answer    string
		answered  bool
		available any
		want      int
		ok        bool
	}{
		{name: "valid", answer: "3", answered: true, available: 5, want: 3, ok: true},
		{name: "all stock", answer: "5", answered: true, available: "5", want: 5, ok: true},
		{name: "leading integer", answer: "2 boxes", answered: true, available: 5, want: 2, ok: true},
		{name: "too many", answer: "9", answered: true, available: 5},
		{name: "zero", answer: "0", answered: true, available: 5},
		{name: "negative", answer: "-1", answered: true, available: 5},
		{name: "text", answer: "abc", answered: true, available: 5},
		{name: "cancelled", answer: "", answered: false, available: 5},
		{name: "unknown stock", answer: "1", answered: true, available: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := validateQuantity(tc.answer, tc.answered, tc.available)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("got %d,%v want %d,%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestCoercePrice(t *testing.T) {
	cases := []struct {
		in   any
		want *float64
	}{
		{in: "$5", want: ptr(5)},
		{in: "19.99", want: ptr(19.99)},
		{in: "$2.5 each", want: ptr(2.5)},
		{in: json.Number("7"), want: ptr(7)},
		{in: "free", want: nil},
		{in: nil, want: nil},
	}
	for _, tc := range cases {
		got := coercePrice(tc.in)
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("coercePrice(%v) = %v", tc.in, got)
		}
	}
}

func ptr(f float64) *float64 { return &f }

func TestPrepareUploadShowsHeadersBeforeSending(t *testing.T) {
	client, rec := newBackend(t, map[string]string{"POST /upload-csv": `{"fileId":9}`})
	c, _ := newController(client)

	c.SetFile(writeCSV(t, "Name,Qty\nTea,1\n"))
	upload, s, err := c.PrepareUpload()
	if err != nil {
		t.Fatalf("PrepareUpload: %v", err)
	}
	if !reflect.DeepEqual(s.HeaderKeys, []string{"Name", "Qty"}) {
		t.Fatalf("headers = %v", s.HeaderKeys)
	}
	if len(rec.all()) != 0 {
		t.Fatal("no request expected before sending")
	}
	if upload.FileName != "stock.csv" || len(upload.Rows) != 1 {
		t.Fatalf("unexpected upload %+v", upload)
	}

	s, err = c.SendUpload(context.Background(), upload)
	if err != nil {
		t.Fatalf("SendUpload: %v", err)
	}
	if len(s.CsvList) != 1 || s.CsvList[0].ID != "9" {
		t.Fatalf("list = %+v", s.CsvList)
	}
}

func TestAddCsvFileAppendsWithoutRequest(t *testing.T) {
	client, rec := newBackend(t, map[string]string{
		"GET /csv-list": `[{"id":1,"file_name":"old.csv"}]`,
	})
	c, _ := newController(client)
	if _, err := c.LoadCsvList(context.Background()); err != nil {
		t.Fatal(err)
	}

	s := c.AddCsvFile(models.CsvFile{ID: "4", FileName: "restored.csv"})
	want := []models.CsvFile{{ID: "1", FileName: "old.csv"}, {ID: "4", FileName: "restored.csv"}}
	if !reflect.DeepEqual(s.CsvList, want) {
		t.Fatalf("list = %+v", s.CsvList)
	}
	if got := len(rec.all()); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}
}
