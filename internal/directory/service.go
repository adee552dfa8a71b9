package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque service identifier. The directory may send it as a JSON
// number or string; the raw text is kept either way. A null id leaves the
// zero ID, which cannot be deleted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("service id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Service is a record as returned by the directory. Timestamps are kept as
// the raw ISO-8601 strings the server sent.
type Service struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Status      string `json:"status"`
	Created     string `json:"created"`
	LastUpdated string `json:"lastUpdated"`
}

// Draft is the body sent when registering a service.
type Draft struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
