package model

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Items are the item types of an array property. Exports write either a
// list or a single object; a single object is one item.
type Items []Property

// UnmarshalYAML accepts a mapping or a sequence.
func (it *Items) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var p Property
		if err := value.Decode(&p); err != nil {
			return err
		}
		*it = Items{p}
		return nil
	}
	var list []Property
	if err := value.Decode(&list); err != nil {
		return err
	}
	*it = list
	return nil
}

// UnmarshalJSON accepts an object or an array.
func (it *Items) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var p Property
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*it = Items{p}
		return nil
	}
	var list []Property
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*it = list
	return nil
}
