package store

import "database/sql"

const materialKey = "study_material"

// SetMetadata upserts a key-value pair in the study_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO study_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM study_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMaterial persists the current study material or topic string.
func (s *Store) SetMaterial(material string) error {
	return s.SetMetadata(materialKey, material)
}

// GetMaterial returns the persisted study material, empty if none was set.
func (s *Store) GetMaterial() (string, error) {
	return s.GetMetadata(materialKey)
}
