package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

const DefaultBaseURL = "http://localhost:4000"

// Client talks to the inventory backend. Calls are made once; nothing is
// retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL, falling back to DefaultBaseURL when
// it is empty. A nil httpClient gets a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListCsv fetches the uploaded datasets.
func (c *Client) ListCsv(ctx context.Context) ([]models.CsvFile, error) {
	var files []models.CsvFile
	if err := c.do(ctx, http.MethodGet, "/csv-list", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// CsvData fetches the rows of one dataset.
func (c *Client) CsvData(ctx context.Context, fileID models.FileID) ([]models.Row, error) {
	var rows []models.Row
	if err := c.do(ctx, http.MethodGet, "/csv-data/"+url.PathEscape(fileID.String()), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type uploadRequest struct {
	Array    []models.Row `json:"array"`
	FileName string       `json:"fileName"`
}

type uploadResponse struct {
	FileID models.FileID `json:"fileId"`
}

// UploadCsv stores parsed rows under fileName and returns the new id.
func (c *Client) UploadCsv(ctx context.Context, rows []models.Row, fileName string) (models.FileID, error) {
	if rows == nil {
		rows = []models.Row{}
	}
	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload-csv", uploadRequest{Array: rows, FileName: fileName}, &resp); err != nil {
		return "", err
	}
	return resp.FileID, nil
}

type appendRequest struct {
	Array []models.ProductDraft `json:"array"`
}

// AppendCsv adds products to an existing dataset.
func (c *Client) AppendCsv(ctx context.Context, fileID models.FileID, products []models.ProductDraft) error {
	path := "/append-csv/" + url.PathEscape(fileID.String())
	return c.do(ctx, http.MethodPost, path, appendRequest{Array: products}, nil)
}

// SellProduct records a sale.
func (c *Client) SellProduct(ctx context.Context, sale models.SaleRequest) error {
	return c.do(ctx, http.MethodPost, "/sell-product", sale, nil)
}

// do sends one request. When dest is nil the response body is still
// required to be JSON but its content is discarded.
func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	fail := func(kind ErrorKind, err error) error {
		return &RequestError{Method: method, Path: path, Kind: kind, Err: err}
	}

	var body io.Reader
	if payload != nil {
		blob, err := json.Marshal(payload)
		if err != nil {
			return fail(KindTransport, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(KindTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(KindTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RequestError{
			Method:     method,
			Path:       path,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	var sink any
	if dest == nil {
		dest = &sink
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fail(KindDecode, err)
	}
	return nil
}
