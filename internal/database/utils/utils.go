package utils

import (
	"encoding/json"
	"fmt"
)

// ToDocument flattens v into the field map a document store would hold,
// honouring the json tags the models share with their firestore tags.
func ToDocument(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("data is nil")
	}

	jsonStr, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{}
	if err := json.Unmarshal(jsonStr, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Normalize converts a single value into its stored representation.
func Normalize(v interface{}) (interface{}, error) {
	jsonStr, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := json.Unmarshal(jsonStr, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func DocToType(doc map[string]interface{}, v interface{}) error {
	if doc == nil {
		return fmt.Errorf("doc is nil")
	}

	jsonStr, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(jsonStr, v); err != nil {
		return err
	}

	return nil
}
