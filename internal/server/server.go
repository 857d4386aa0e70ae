// Package server is a reference backend for the inventory client. It serves
// the csv-list, csv-data, upload-csv, append-csv and sell-product endpoints
// over a store.Store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"
	"github.com/MMHameed52/Inventory-Tracker/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 32 << 20

type Server struct {
	store   store.Store
	logger  *slog.Logger
	origins []string
}

func New(st store.Store, logger *slog.Logger, allowedOrigins []string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{store: st, logger: logger, origins: allowedOrigins}
}

// Handler returns the routed handler wrapped with CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/csv-list", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/csv-data/{fileId}", s.handleData).Methods(http.MethodGet)
	router.HandleFunc("/upload-csv", s.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/append-csv/{fileId}", s.handleAppend).Methods(http.MethodPost)
	router.HandleFunc("/sell-product", s.handleSell).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListFiles(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if files == nil {
		files = []models.CsvFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	fileID := models.FileID(mux.Vars(r)["fileId"])
	rows, err := s.store.Rows(r.Context(), fileID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []models.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type uploadRequest struct {
	Array    []models.Row `json:"array"`
	FileName string       `json:"fileName"`
}

type uploadResponse struct {
	FileID models.FileID `json:"fileId"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	fileID, err := s.store.CreateFile(r.Context(), req.FileName, req.Array)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("csv uploaded", "file_id", fileID, "file_name", req.FileName, "rows", len(req.Array))
	writeJSON(w, http.StatusCreated, uploadResponse{FileID: fileID})
}

type appendRequest struct {
	Array []models.Row `json:"array"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	fileID := models.FileID(mux.Vars(r)["fileId"])

	var req appendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Array) == 0 {
		writeError(w, http.StatusBadRequest, "array must hold at least one row")
		return
	}

	if err := s.store.AppendRows(r.Context(), fileID, req.Array); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("rows appended", "file_id", fileID, "rows", len(req.Array))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Data appended"})
}

type sellRequest struct {
	ProductID      any          `json:"productId"`
	QuantityToSell json.Number  `json:"quantityToSell"`
	Price          *json.Number `json:"price"`
}

type sellResponse struct {
	Message   string `json:"message"`
	SaleID    string `json:"saleId"`
	Remaining int    `json:"remaining"`
	Total     string `json:"total"`
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	productID := models.FormatValue(req.ProductID)
	if productID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}
	quantity, err := req.QuantityToSell.Int64()
	if err != nil || quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantityToSell must be a positive integer")
		return
	}
	if req.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "price must be a number")
		return
	}

	sale, err := s.store.SellProduct(r.Context(), productID, int(quantity), price)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("product sold",
		"product_id", productID,
		"quantity", sale.Quantity,
		"total", sale.Total.StringFixed(2),
		"remaining", sale.Remaining,
	)
	writeJSON(w, http.StatusOK, sellResponse{
		Message:   "Product sold",
		SaleID:    sale.ID,
		Remaining: sale.Remaining,
		Total:     sale.Total.StringFixed(2),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrFileNotFound), errors.Is(err, store.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
