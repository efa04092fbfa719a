package shared

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// ID is a record identifier as the backend returns it. Rows keep numeric
// serial ids while offline-created rows and uuid tables use strings, so
// both JSON forms decode into the same value.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("decode id %s: not a string or number", data)
	}
	*id = ID(data)
	return nil
}
