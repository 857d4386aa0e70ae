// Package controller owns the client's view state and turns user actions
// into backend calls. Every action is a method that returns the resulting
// State together with an error describing what went wrong, if anything.
// Failed calls are logged and leave the state as it was; nothing is retried.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/MMHameed52/Inventory-Tracker/internal/csv"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

// User-facing acknowledgments.
const (
	MsgUploaded        = "CSV uploaded successfully!"
	MsgAppended        = "Data appended successfully!"
	MsgSold            = "Product sold successfully!"
	MsgInvalidQuantity = "Invalid quantity. Please enter a valid number that is less than or equal to available stock."
)

// Backend is the remote inventory service.
type Backend interface {
	ListCsv(ctx context.Context) ([]models.CsvFile, error)
	CsvData(ctx context.Context, fileID models.FileID) ([]models.Row, error)
	UploadCsv(ctx context.Context, rows []models.Row, fileName string) (models.FileID, error)
	AppendCsv(ctx context.Context, fileID models.FileID, products []models.ProductDraft) error
	SellProduct(ctx context.Context, sale models.SaleRequest) error
}

// Notifier shows an acknowledgment to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Prompter asks the user a question. ok is false when the user cancelled.
type Prompter interface {
	Prompt(message string) (answer string, ok bool)
}

type PromptFunc func(message string) (string, bool)

func (f PromptFunc) Prompt(message string) (string, bool) { return f(message) }

// Answer is a Prompter that always replies with value.
func Answer(value string) Prompter {
	return PromptFunc(func(string) (string, bool) { return value, true })
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithStrictSchema makes SelectCsv reject datasets whose rows do not all
// share the first row's columns.
func WithStrictSchema(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

type Controller struct {
	backend  Backend
	notifier Notifier
	logger   *slog.Logger
	strict   bool

	mu    sync.Mutex
	state State
}

func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		notifier: NotifierFunc(func(string) {}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// update applies fn under the lock and returns the new snapshot. The lock
// is never held across a backend call.
func (c *Controller) update(fn func(*State)) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	return c.state.clone()
}

// LoadCsvList fetches the dataset list. It is meant to run once at startup.
func (c *Controller) LoadCsvList(ctx context.Context) (State, error) {
	c.update(func(s *State) { s.Loading = true })

	files, err := c.backend.ListCsv(ctx)
	if err != nil {
		c.logger.Error("Error fetching CSV list", "error", err)
		return c.update(func(s *State) { s.Loading = false }), err
	}

	return c.update(func(s *State) {
		s.CsvList = files
		s.Loading = false
	}), nil
}

// SelectCsv shows the rows of one dataset. The column list comes from the
// first row. An empty dataset leaves the current selection on screen.
func (c *Controller) SelectCsv(ctx context.Context, fileID models.FileID) (State, error) {
	rows, err := c.backend.CsvData(ctx, fileID)
	if err != nil {
		c.logger.Error("Error fetching CSV data", "file_id", fileID, "error", err)
		return c.State(), err
	}
	if len(rows) == 0 {
		c.logger.Info("CSV data is empty, keeping current selection", "file_id", fileID)
		return c.State(), nil
	}
	if c.strict {
		if err := checkSchema(rows); err != nil {
			c.logger.Error("CSV data has inconsistent columns", "file_id", fileID, "error", err)
			return c.State(), err
		}
	}

	headers := rows[0].Keys()
	return c.update(func(s *State) {
		s.SelectedCsvData = rows
		s.HeaderKeys = headers
		s.SelectedFileID = fileID
	}), nil
}

// SetFile picks the file that UploadCsv sends.
func (c *Controller) SetFile(path string) State {
	return c.update(func(s *State) { s.SelectedFile = path })
}

// Upload is a parsed file waiting to be sent.
type Upload struct {
	FileName string
	Rows     []models.Row
}

// UploadCsv parses the selected file and sends its rows to the backend.
// The parsed headers are shown before the upload completes and stay even
// if it fails.
func (c *Controller) UploadCsv(ctx context.Context) (State, error) {
	upload, s, err := c.PrepareUpload()
	if err != nil {
		return s, err
	}
	return c.SendUpload(ctx, upload)
}

// PrepareUpload parses the selected file and shows its headers.
func (c *Controller) PrepareUpload() (Upload, State, error) {
	path := c.State().SelectedFile
	if path == "" {
		return Upload{}, c.State(), ErrNoFileSelected
	}

	parsed, err := csv.NewParser(path).Parse()
	if err != nil {
		c.logger.Error("Error reading CSV file", "path", path, "error", err)
		return Upload{}, c.State(), err
	}

	s := c.update(func(s *State) { s.HeaderKeys = parsed.Headers })
	return Upload{FileName: filepath.Base(path), Rows: parsed.Rows}, s, nil
}

// SendUpload creates a dataset from a parsed file and adds it to the list.
func (c *Controller) SendUpload(ctx context.Context, upload Upload) (State, error) {
	fileID, err := c.backend.UploadCsv(ctx, upload.Rows, upload.FileName)
	if err != nil {
		c.logger.Error("Error uploading CSV", "file", upload.FileName, "error", err)
		return c.State(), err
	}

	c.notifier.Notify(MsgUploaded)
	return c.AddCsvFile(models.CsvFile{ID: fileID, FileName: upload.FileName}), nil
}

// AddCsvFile appends a dataset created elsewhere, such as by a restore, to
// the list without fetching it again.
func (c *Controller) AddCsvFile(file models.CsvFile) State {
	return c.update(func(s *State) { s.CsvList = append(s.CsvList, file) })
}

// UpdateDraftField changes one field of the add-product form.
func (c *Controller) UpdateDraftField(name, value string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft, err := c.state.Draft.With(name, value)
	if err != nil {
		return c.state.clone(), err
	}
	c.state.Draft = draft
	return c.state.clone(), nil
}

// AppendProduct sends the draft to the selected dataset. The table is not
// refreshed; the new row shows up on the next selection.
func (c *Controller) AppendProduct(ctx context.Context) (State, error) {
	s := c.State()
	if s.SelectedFileID == "" {
		return s, ErrNoSelection
	}

	if err := c.backend.AppendCsv(ctx, s.SelectedFileID, []models.ProductDraft{s.Draft}); err != nil {
		c.logger.Error("Error appending data", "file_id", s.SelectedFileID, "error", err)
		return c.State(), err
	}

	c.notifier.Notify(MsgAppended)
	return c.State(), nil
}

// SellProduct asks for a quantity, records the sale and reloads the
// selected dataset. An invalid quantity is reported to the user and nothing
// is sent.
func (c *Controller) SellProduct(ctx context.Context, productID, availableQty, price any, prompter Prompter) (State, error) {
	numericPrice := coercePrice(price)

	answer, ok := "", false
	if prompter != nil {
		answer, ok = prompter.Prompt(QuantityPrompt(availableQty))
	}
	qty, valid := validateQuantity(answer, ok, availableQty)
	if !valid {
		c.notifier.Notify(MsgInvalidQuantity)
		return c.State(), ErrInvalidQuantity
	}

	sale := models.SaleRequest{ProductID: productID, QuantityToSell: qty, Price: numericPrice}
	c.logger.Info("Sending product sale", "productId", productID, "quantityToSell", qty, "price", numericPrice)

	if err := c.backend.SellProduct(ctx, sale); err != nil {
		c.logger.Error("Error selling product", "productId", productID, "error", err)
		return c.State(), err
	}
	c.notifier.Notify(MsgSold)

	fileID := c.State().SelectedFileID
	if fileID == "" {
		c.logger.Warn("No dataset selected, skipping refresh after sale")
		return c.State(), nil
	}
	s, err := c.SelectCsv(ctx, fileID)
	if err != nil {
		return s, fmt.Errorf("refresh after sale: %w", err)
	}
	return s, nil
}

// QuantityPrompt is the question asked before a sale.
func QuantityPrompt(availableQty any) string {
	return fmt.Sprintf("Enter quantity to sell (Available: %s)", models.FormatValue(availableQty))
}

func validateQuantity(answer string, answered bool, availableQty any) (int, bool) {
	if !answered {
		return 0, false
	}
	qty, ok := models.LeadingInt(answer)
	if !ok || qty <= 0 {
		return 0, false
	}
	available, ok := models.ToFloat(availableQty)
	if !ok || float64(qty) > available {
		return 0, false
	}
	return qty, true
}

// coercePrice turns a displayed price into a number. The first "$" is
// dropped and the leading decimal is parsed; nil means unparseable.
func coercePrice(price any) *float64 {
	if s, ok := price.(string); ok {
		m, ok := models.LeadingFloat(strings.Replace(s, "$", "", 1))
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	if f, ok := models.ToFloat(price); ok {
		return &f
	}
	return nil
}

// checkSchema compares column sets; order may differ between rows.
func checkSchema(rows []models.Row) error {
	expected := rows[0].Keys()
	want := slices.Sorted(slices.Values(expected))
	for i, row := range rows[1:] {
		got := row.Keys()
		if !slices.Equal(slices.Sorted(slices.Values(got)), want) {
			return &SchemaMismatchError{Index: i + 1, Expected: expected, Got: got}
		}
	}
	return nil
}
