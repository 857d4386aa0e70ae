package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	filesCollection = "csv_files"
	rowsCollection  = "csv_rows"
	salesCollection = "sales"
	batchSize       = 1000
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

type fileDoc struct {
	ID        string    `bson:"_id"`
	FileName  string    `bson:"file_name"`
	CreatedAt time.Time `bson:"created_at"`
}

type rowDoc struct {
	ProductID string `bson:"_id"`
	FileID    string `bson:"file_id"`
	Position  int    `bson:"position"`
	Fields    bson.D `bson:"fields"`
}

type saleDoc struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"product_id"`
	FileID    string    `bson:"file_id"`
	Quantity  int       `bson:"quantity"`
	Price     string    `bson:"price"`
	Total     string    `bson:"total"`
	SoldAt    time.Time `bson:"sold_at"`
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Connected to MongoDB at %s", uri)

	m := &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Database.Collection(rowsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "file_id", Value: 1}, {Key: "position", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create row index: %w", err)
	}
	return nil
}

func (m *MongoDB) ListFiles(ctx context.Context) ([]models.CsvFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.Database.Collection(filesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := make([]models.CsvFile, 0)
	for cursor.Next(ctx) {
		var doc fileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode file: %w", err)
		}
		files = append(files, models.CsvFile{ID: models.FileID(doc.ID), FileName: doc.FileName})
	}
	return files, cursor.Err()
}

func (m *MongoDB) CreateFile(ctx context.Context, fileName string, rows []models.Row) (models.FileID, error) {
	fileID := newFileID()
	doc := fileDoc{ID: string(fileID), FileName: fileName, CreatedAt: time.Now().UTC()}
	if _, err := m.Database.Collection(filesCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert file: %w", err)
	}
	if err := m.insertRows(ctx, fileID, 0, rows); err != nil {
		return "", err
	}
	log.Printf("Stored %d rows for %s (%s)", len(rows), fileName, fileID)
	return fileID, nil
}

func (m *MongoDB) Rows(ctx context.Context, fileID models.FileID) ([]models.Row, error) {
	if err := m.fileExists(ctx, fileID); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := m.Database.Collection(rowsCollection).Find(ctx, bson.M{"file_id": string(fileID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rows: %w", err)
	}
	defer cursor.Close(ctx)

	rows := make([]models.Row, 0)
	for cursor.Next(ctx) {
		var doc rowDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		rows = append(rows, RowFromBSON(doc.Fields))
	}
	return rows, cursor.Err()
}

func (m *MongoDB) AppendRows(ctx context.Context, fileID models.FileID, rows []models.Row) error {
	if err := m.fileExists(ctx, fileID); err != nil {
		return err
	}

	next := 0
	var last rowDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	err := m.Database.Collection(rowsCollection).FindOne(ctx, bson.M{"file_id": string(fileID)}, opts).Decode(&last)
	switch {
	case err == nil:
		next = last.Position + 1
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("failed to find last row: %w", err)
	}

	return m.insertRows(ctx, fileID, next, rows)
}

// SellProduct updates the row and then records the sale. The two writes
// are not transactional; a failed sale insert leaves the stock decremented.
func (m *MongoDB) SellProduct(ctx context.Context, productID string, quantity int, price decimal.Decimal) (Sale, error) {
	coll := m.Database.Collection(rowsCollection)

	var doc rowDoc
	err := coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Sale{}, ErrProductNotFound
	}
	if err != nil {
		return Sale{}, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	updated, remaining, err := applySale(RowFromBSON(doc.Fields), quantity)
	if err != nil {
		return Sale{}, err
	}
	doc.Fields = RowToBSON(updated)
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": productID}, doc); err != nil {
		return Sale{}, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	sale := newSale(productID, models.FileID(doc.FileID), quantity, price, remaining)
	_, err = m.Database.Collection(salesCollection).InsertOne(ctx, saleDoc{
		ID:        sale.ID,
		ProductID: sale.ProductID,
		FileID:    doc.FileID,
		Quantity:  sale.Quantity,
		Price:     sale.Price.String(),
		Total:     sale.Total.String(),
		SoldAt:    sale.SoldAt,
	})
	if err != nil {
		return Sale{}, fmt.Errorf("failed to record sale: %w", err)
	}
	return sale, nil
}

func (m *MongoDB) fileExists(ctx context.Context, fileID models.FileID) error {
	err := m.Database.Collection(filesCollection).FindOne(ctx, bson.M{"_id": string(fileID)}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrFileNotFound
	}
	return err
}

func (m *MongoDB) insertRows(ctx context.Context, fileID models.FileID, start int, rows []models.Row) error {
	documents := make([]interface{}, 0, batchSize)
	for i, row := range rows {
		productID, stamped := stampRow(row, fileID)
		documents = append(documents, rowDoc{
			ProductID: productID,
			FileID:    string(fileID),
			Position:  start + i,
			Fields:    RowToBSON(stamped),
		})

		if len(documents) >= batchSize {
			if err := m.insertBatch(ctx, documents); err != nil {
				return err
			}
			documents = documents[:0]
		}
	}

	if len(documents) > 0 {
		return m.insertBatch(ctx, documents)
	}
	return nil
}

func (m *MongoDB) insertBatch(ctx context.Context, documents []interface{}) error {
	_, err := m.Database.Collection(rowsCollection).InsertMany(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	log.Printf("Inserted batch of %d rows", len(documents))
	return nil
}
