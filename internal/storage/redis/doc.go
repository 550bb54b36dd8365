package redis

import "encoding/json"

// Entities are stored as one Redis hash per document: hash fields are
// dotted field paths, hash values are the JSON encoding of the field
// value. This keeps the minimal-delta upsert a plain HSET of only the
// changed fields.

// entityDoc converts an entity into its document form via a JSON round
// trip, so the delta engine compares the same representation that ends
// up in the hash.
func entityDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// docEntity decodes a document back into the given entity pointer.
func docEntity(doc map[string]any, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// encodeField encodes a single field value for hash storage.
func encodeField(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeFields decodes a raw hash (field path -> JSON value) into a
// flat document.
func decodeFields(raw map[string]string) (map[string]any, error) {
	flat := make(map[string]any, len(raw))
	for path, enc := range raw {
		var v any
		if err := json.Unmarshal([]byte(enc), &v); err != nil {
			return nil, err
		}
		flat[path] = v
	}
	return flat, nil
}
