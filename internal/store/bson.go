package store

import (
	"encoding/json"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// RowToBSON converts a row to an ordered BSON document. Unset columns are
// dropped.
func RowToBSON(row models.Row) bson.D {
	doc := make(bson.D, 0, row.Len())
	for _, key := range row.Keys() {
		value, ok := row.Get(key)
		if !ok {
			continue
		}
		doc = append(doc, bson.E{Key: key, Value: toBSONValue(value)})
	}
	return doc
}

// RowFromBSON is the inverse of RowToBSON.
func RowFromBSON(doc bson.D) models.Row {
	row := models.NewRow()
	for _, e := range doc {
		row.Set(e.Key, fromBSONValue(e.Value))
	}
	return row
}

func toBSONValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case int32:
		return int64(t)
	case bson.D:
		return RowFromBSON(t)
	default:
		return v
	}
}
