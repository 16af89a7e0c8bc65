package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persiste el token de acceso entre ejecuciones.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// FileStore guarda el token en un documento JSON {"access_token": "..."} con permisos 0600.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore crea el almacén sobre path (el directorio se crea al guardar).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path ruta del archivo de sesión.
func (s *FileStore) Path() string { return s.path }

// Load devuelve "" sin error si el archivo no existe.
func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: leer %s: %w", s.path, err)
	}
	var doc tokenFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("session: archivo de sesión inválido: %w", err)
	}
	return doc.AccessToken, nil
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	raw, err := json.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return fmt.Errorf("session: serializar token: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("session: escribir token: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: guardar token: %w", err)
	}
	return nil
}

// Clear elimina el archivo; no falla si ya no existe.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: borrar token: %w", err)
	}
	return nil
}

// MemoryStore almacén en memoria (tests y modo no persistente).
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore { return &MemoryStore{token: token} }

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
