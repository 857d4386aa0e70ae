package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileID identifies an uploaded dataset. Backends send it either as a JSON
// number or a string; both decode to the same textual form.
type FileID string

func (id *FileID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*id = ""
	case string:
		*id = FileID(t)
	case json.Number:
		*id = FileID(t.String())
	default:
		return fmt.Errorf("file id: unsupported JSON value %s", string(data))
	}
	return nil
}

func (id FileID) String() string {
	return string(id)
}

// CsvFile is one entry of the uploaded datasets list.
type CsvFile struct {
	ID       FileID `json:"id"`
	FileName string `json:"file_name"`
}
