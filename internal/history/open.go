package history

import "fmt"

const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend. "memory" and "" keep history in process.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return &MemoryStore{}, nil
	case BackendJSONL:
		return &JSONLStore{Path: path}, nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
