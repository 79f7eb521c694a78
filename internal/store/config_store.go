// Free-form key/value configuration rows, used by the UI for reader
// preferences and the remote server address.

package store

import "database/sql"

// Keys seeded into the config table on first run.
var defaultConfig = [][2]string{
	{"server", ""},
	{"language", "en"},
	{"direction", "ltr"},
	{"pageMode", "single"},
	{"resizeMode", "fit"},
}

// GetConfigValue returns the value stored under key, or "" when the key is
// not present.
func (s *Store) GetConfigValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetConfigValue inserts or replaces the value stored under key.
func (s *Store) SetConfigValue(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO config (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// AllConfig returns every config row as a map.
func (s *Store) AllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}

// InitializeConfig seeds the default config rows if the table is empty.
func (s *Store) InitializeConfig() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM config").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, kv := range defaultConfig {
		if _, err := s.db.Exec("INSERT INTO config (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
