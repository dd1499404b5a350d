package entity

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is the degraded value of any metadata field that could not be extracted.
const NotAvailable = "not available"

// RecordCount is an optional integer that serializes as "not available" when unknown.
type RecordCount struct {
	Value int
	Valid bool
}

func KnownRecordCount(n int) RecordCount {
	return RecordCount{Value: n, Valid: true}
}

func (c RecordCount) String() string {
	if !c.Valid {
		return NotAvailable
	}
	return strconv.Itoa(c.Value)
}

func (c RecordCount) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(c.Value)
}

func (c *RecordCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = KnownRecordCount(n)
		return nil
	}
	*c = RecordCount{}
	return nil
}

// DatasetMetadata is the descriptive information scraped from a dataset's information page.
type DatasetMetadata struct {
	Description  string      `json:"description"`
	LastModified string      `json:"last_modified"`
	RecordCount  RecordCount `json:"record_count"`
	Theme        string      `json:"theme"`
}

// UnavailableMetadata is the fully degraded metadata record.
func UnavailableMetadata() DatasetMetadata {
	return DatasetMetadata{
		Description:  NotAvailable,
		LastModified: NotAvailable,
		Theme:        NotAvailable,
	}
}
