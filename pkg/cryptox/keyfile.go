package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DecodeKey parses a base64 (std or url, padded or not) key and checks its
// length.
func DecodeKey(encoded string, size int) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		key, err := enc.DecodeString(encoded)
		if err != nil {
			continue
		}
		if len(key) != size {
			return nil, fmt.Errorf("cryptox: key must be %d bytes, got %d", size, len(key))
		}
		return key, nil
	}
	return nil, errors.New("cryptox: key is not valid base64")
}

// LoadOrGenerateKey reads a base64 key from path, or writes a freshly
// generated one (mode 0600) when the file does not exist yet. generated tells
// the caller a new key was created.
func LoadOrGenerateKey(path string, size int) (key []byte, generated bool, err error) {
	data, generated, err := loadOrCreate(path, func() ([]byte, error) {
		buf := make([]byte, size)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		return []byte(base64.StdEncoding.EncodeToString(buf)), nil
	})
	if err != nil {
		return nil, false, err
	}

	key, err = DecodeKey(string(data), size)
	if err != nil {
		return nil, false, fmt.Errorf("cryptox: key file %s: %w", path, err)
	}
	return key, generated, nil
}

func loadOrCreate(path string, generate func() ([]byte, error)) ([]byte, bool, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return data, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	data, err = generate()
	if err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, false, err
	}
	return data, true, nil
}
