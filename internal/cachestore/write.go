package cachestore

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"srlprep/internal/fileutil"
	"srlprep/internal/logging"
	"srlprep/internal/stageerr"
)

// WriteCSV renders rows and writes the artifact atomically.
func (s *Store) WriteCSV(name string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "encode csv", name, err)
	}
	return s.writeArtifact(name, buf.Bytes())
}

// WriteJSON marshals value with sorted keys and writes the artifact
// atomically. A trailing newline keeps the files diff-friendly.
func (s *Store) WriteJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "encode json", name, err)
	}
	return s.writeArtifact(name, append(data, '\n'))
}

func (s *Store) writeArtifact(name string, data []byte) error {
	path := s.Path(name)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "write artifact", name, err)
	}
	s.logger.Debug("wrote artifact",
		logging.String("artifact", name),
		logging.Int("bytes", len(data)))
	return nil
}
