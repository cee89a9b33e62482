package utils

import (
	"strings"

	"github.com/goccy/go-json"
)

func StructToBytes(s interface{}) ([]byte, error) {
	return json.Marshal(s)
}

// StructToIndentedBytes is StructToBytes for output read by people.
func StructToIndentedBytes(s interface{}) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// UpperTrim normalises a free-text enum value typed into a form.
func UpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
