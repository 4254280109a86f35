// Binary encoding for rule-set blobs.
//
// The token table — the dominant blob for real transliterators, often
// hundreds of tokens — uses a compact binary layout; the remaining
// settings (rules, onmatch rules, whitespace, metadata) are gob-encoded.
//
// Token table format (little-endian):
//
//	tokenCount: uint32
//	per token:
//	  keyLen:     uint16
//	  key:        [keyLen]byte
//	  classCount: uint16
//	  per class:
//	    classLen: uint16
//	    class:    [classLen]byte
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sort"

	"github.com/corey/translit/internal/ports"
)

// encodeTokenTable encodes a token→classes map to compact binary form.
// Token keys are sorted for deterministic output.
func encodeTokenTable(tokens map[string][]string) ([]byte, error) {
	keys := make([]string, 0, len(tokens))
	totalSize := 4
	for key, classes := range tokens {
		keys = append(keys, key)
		totalSize += 2 + len(key) + 2
		for _, c := range classes {
			totalSize += 2 + len(c)
		}
	}
	sort.Strings(keys)

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(keys)))
	offset += 4

	putString := func(s string) error {
		if len(s) > 65535 {
			return fmt.Errorf("string too long: %d bytes", len(s))
		}
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(s)))
		offset += 2
		copy(buf[offset:], s)
		offset += len(s)
		return nil
	}

	for _, key := range keys {
		if err := putString(key); err != nil {
			return nil, err
		}
		classes := tokens[key]
		if len(classes) > 65535 {
			return nil, fmt.Errorf("too many classes for token %q", key)
		}
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(classes)))
		offset += 2
		for _, c := range classes {
			if err := putString(c); err != nil {
				return nil, err
			}
		}
	}

	return buf, nil
}

// decodeTokenTable decodes the binary token table format.
func decodeTokenTable(buf []byte) (map[string][]string, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("token table truncated: %d bytes", len(buf))
	}
	offset := 0
	count := binary.LittleEndian.Uint32(buf[offset:])
	offset += 4

	getString := func() (string, error) {
		if offset+2 > len(buf) {
			return "", fmt.Errorf("token table truncated at offset %d", offset)
		}
		n := int(binary.LittleEndian.Uint16(buf[offset:]))
		offset += 2
		if offset+n > len(buf) {
			return "", fmt.Errorf("token table truncated at offset %d", offset)
		}
		s := string(buf[offset : offset+n])
		offset += n
		return s, nil
	}

	tokens := make(map[string][]string, count)
	for i := uint32(0); i < count; i++ {
		key, err := getString()
		if err != nil {
			return nil, err
		}
		if offset+2 > len(buf) {
			return nil, fmt.Errorf("token table truncated at offset %d", offset)
		}
		classCount := int(binary.LittleEndian.Uint16(buf[offset:]))
		offset += 2
		classes := make([]string, 0, classCount)
		for j := 0; j < classCount; j++ {
			c, err := getString()
			if err != nil {
				return nil, err
			}
			classes = append(classes, c)
		}
		tokens[key] = classes
	}
	return tokens, nil
}

// settingsBlob is the gob-serializable remainder of a spec.
type settingsBlob struct {
	Rules        []ports.Rule
	OnMatchRules []ports.OnMatchRule
	Whitespace   ports.Whitespace
	Metadata     map[string]string
}

func encodeSettings(spec *ports.Spec) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(settingsBlob{
		Rules:        spec.Rules,
		OnMatchRules: spec.OnMatchRules,
		Whitespace:   spec.Whitespace,
		Metadata:     spec.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeSettings(data []byte) (*ports.Spec, error) {
	var blob settingsBlob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return nil, err
	}
	return &ports.Spec{
		Rules:        blob.Rules,
		OnMatchRules: blob.OnMatchRules,
		Whitespace:   blob.Whitespace,
		Metadata:     blob.Metadata,
	}, nil
}
