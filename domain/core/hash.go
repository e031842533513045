package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Fingerprint hashes an analysis input: the JSON form of the configuration
// followed by the column list and every row in column order. Row order is
// preserved, so the fingerprint identifies the exact input.
func Fingerprint(config interface{}, columns []string, rows []map[string]string) (Hash, error) {
	cfgBytes, err := json.Marshal(config)
	if err != nil {
		return "", err
	}

	var data strings.Builder
	data.Write(cfgBytes)
	data.WriteByte('\n')

	cols := append([]string(nil), columns...)
	sort.Strings(cols)
	for _, c := range cols {
		data.WriteString(c)
		data.WriteByte('\x1f')
	}
	data.WriteByte('\n')

	for _, row := range rows {
		for _, c := range cols {
			data.WriteString(row[c])
			data.WriteByte('\x1f')
		}
		data.WriteByte('\x1e')
	}

	return NewHash([]byte(data.String())), nil
}
