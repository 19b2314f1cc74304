package store

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

var (
	fileMagic = []byte("LLS1")

	ErrBadKey     = errors.New("store: wrong key or corrupted file")
	ErrEmptyKey   = errors.New("store: encryption key is empty")
	errShortInput = errors.New("store: file too short")
)

const (
	saltSize  = 16
	nonceSize = 24
)

var idKey = func(pass, salt []byte) []byte {
	return argon2.IDKey(pass, salt, 1, 64*1024, 2, 32)
}

// FileStore keeps the namespace in one file sealed with secretbox. The key is
// derived from a passphrase with argon2id and a per-file salt, and kept in
// memory for as long as the salt stays the same. Values are read from disk on
// every call.
type FileStore struct {
	mu   sync.Mutex
	path string
	pass []byte

	salt []byte
	key  [32]byte
}

func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, ErrEmptyKey
	}
	return &FileStore{path: path, pass: []byte(passphrase)}, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, _, err := f.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, salt, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values, salt)
}

func (f *FileStore) read() (map[string]string, []byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read store: %w", err)
	}
	if len(data) < len(fileMagic)+saltSize+nonceSize || !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return nil, nil, errShortInput
	}
	data = data[len(fileMagic):]
	salt := data[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], data[saltSize:saltSize+nonceSize])
	key := f.derive(salt)

	plain, ok := secretbox.Open(nil, data[saltSize+nonceSize:], &nonce, &key)
	if !ok {
		return nil, nil, ErrBadKey
	}

	var doc map[string]map[string]string
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode store: %w", err)
	}
	values := doc[Namespace]
	if values == nil {
		values = map[string]string{}
	}
	return values, salt, nil
}

func (f *FileStore) write(values map[string]string, salt []byte) error {
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("salt: %w", err)
		}
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	plain, err := json.Marshal(map[string]map[string]string{Namespace: values})
	if err != nil {
		return err
	}
	key := f.derive(salt)

	out := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, &key)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("mkdir store dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// derive returns the key for salt. Callers hold f.mu.
func (f *FileStore) derive(salt []byte) [32]byte {
	if f.salt != nil && bytes.Equal(f.salt, salt) {
		return f.key
	}
	copy(f.key[:], idKey(f.pass, salt))
	f.salt = bytes.Clone(salt)
	return f.key
}
