package symptom

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedPayload is returned by ParseCatalog when the body is not JSON.
var ErrMalformedPayload = errors.New("symptom: malformed catalog payload")

type payloadKind int

const (
	payloadUnknown payloadKind = iota
	payloadList
	payloadEnvelope
)

type elementKind int

const (
	elementUnknown elementKind = iota
	elementString
	elementObject
)

type envelope struct {
	Symptoms json.RawMessage `json:"symptoms"`
}

type objectElement struct {
	ID    string  `json:"id"`
	Label *string `json:"label"`
}

// ParseCatalog decodes the body of GET /symptoms. Bodies that are not valid
// JSON fail with ErrMalformedPayload; every valid body is handed to Normalize.
func ParseCatalog(raw []byte) (Catalog, error) {
	if !json.Valid(raw) {
		return NewCatalog(nil), ErrMalformedPayload
	}
	return Normalize(raw), nil
}

// Normalize accepts a bare list of strings, a list of {id, label?} objects,
// or either of those wrapped as {"symptoms": ...}. Anything else, including
// null, yields an empty catalog.
func Normalize(raw json.RawMessage) Catalog {
	switch classifyPayload(raw) {
	case payloadEnvelope:
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Symptoms == nil {
			return NewCatalog(nil)
		}
		if classifyPayload(env.Symptoms) != payloadList {
			return NewCatalog(nil)
		}
		return normalizeList(env.Symptoms)
	case payloadList:
		return normalizeList(raw)
	case payloadUnknown:
		return NewCatalog(nil)
	default:
		return NewCatalog(nil)
	}
}

func normalizeList(raw json.RawMessage) Catalog {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return NewCatalog(nil)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if e, ok := normalizeElement(item); ok {
			entries = append(entries, e)
		}
	}
	return NewCatalog(entries)
}

func normalizeElement(raw json.RawMessage) (Entry, bool) {
	switch classifyElement(raw) {
	case elementString:
		var id string
		if err := json.Unmarshal(raw, &id); err != nil || id == "" {
			return Entry{}, false
		}
		return Entry{ID: id, Label: DeriveLabel(id)}, true
	case elementObject:
		var obj objectElement
		if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
			return Entry{}, false
		}
		label := ""
		if obj.Label != nil {
			label = strings.TrimSpace(*obj.Label)
		}
		if label == "" {
			label = DeriveLabel(obj.ID)
		}
		return Entry{ID: obj.ID, Label: label}, true
	case elementUnknown:
		return Entry{}, false
	default:
		return Entry{}, false
	}
}

func classifyPayload(raw []byte) payloadKind {
	switch firstByte(raw) {
	case '[':
		return payloadList
	case '{':
		return payloadEnvelope
	default:
		return payloadUnknown
	}
}

func classifyElement(raw []byte) elementKind {
	switch firstByte(raw) {
	case '"':
		return elementString
	case '{':
		return elementObject
	default:
		return elementUnknown
	}
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
