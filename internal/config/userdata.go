package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// UserData holds user-specific state that is stored locally between sessions
type UserData struct {
	LastPaths map[string]string `json:"last_paths"` // backend identity -> last visited directory
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// LoadUserData loads user data from the user.data file in the config directory
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(), nil
	}
	return loadUserDataFrom(userDataPath), nil
}

func loadUserDataFrom(path string) *UserData {
	data, err := os.ReadFile(path)
	if err != nil {
		return createDefaultUserData()
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		// Invalid JSON, return default
		return createDefaultUserData()
	}
	if userData.LastPaths == nil {
		userData.LastPaths = make(map[string]string)
	}

	return &userData
}

// SaveUserData saves user data to the user.data file in the config directory
func (ud *UserData) SaveUserData() error {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return err
	}
	return ud.saveTo(userDataPath)
}

func (ud *UserData) saveTo(path string) error {
	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LastPath returns the last visited directory for a backend
func (ud *UserData) LastPath(backend string) string {
	return ud.LastPaths[backend]
}

// SetLastPath records the last visited directory for a backend and saves to file
func (ud *UserData) SetLastPath(backend, path string) error {
	if ud.LastPaths == nil {
		ud.LastPaths = make(map[string]string)
	}
	if ud.LastPaths[backend] == path {
		return nil
	}
	ud.LastPaths[backend] = path
	return ud.SaveUserData()
}

// BackendIdentity returns the key used to remember per-backend state
func (c *Config) BackendIdentity() string {
	if c.Backend.Kind == "s3" {
		return "s3://" + c.Backend.S3.BucketName
	}
	return c.Backend.BaseURL
}

func createDefaultUserData() *UserData {
	now := time.Now()
	return &UserData{
		LastPaths: make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".xtal-cli")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
