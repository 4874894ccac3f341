package load

import (
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the encoded model changes shape.
const snapshotVersion = 1

type snapshot struct {
	Version  int       `msgpack:"version"`
	Database *Database `msgpack:"database"`
}

// WriteSnapshot encodes the model so a later run can skip introspection.
func WriteSnapshot(w io.Writer, db *Database) error {
	if err := msgpack.NewEncoder(w).Encode(&snapshot{Version: snapshotVersion, Database: db}); err != nil {
		return NewSchemaError("", "", "encode snapshot", err)
	}
	return nil
}

// WriteSnapshotFile writes the snapshot of db to path.
func WriteSnapshotFile(path string, db *Database) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return NewSchemaError("", "", "create snapshot "+path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = NewSchemaError("", "", "close snapshot "+path, cerr)
		}
	}()
	return WriteSnapshot(f, db)
}

// ReadSnapshot decodes and links a model written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Database, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, NewSchemaError("", "", "decode snapshot", err)
	}
	if s.Version != snapshotVersion {
		return nil, NewSchemaError("", "", "unsupported snapshot version", nil)
	}
	if s.Database == nil {
		return nil, NewSchemaError("", "", "empty snapshot", nil)
	}
	return s.Database, s.Database.Link()
}
