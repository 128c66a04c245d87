package resources

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// readArtifact maps a file read-only and returns a private copy of its
// contents. Artifacts are parsed once at load time, so the mapping is
// released before returning.
func readArtifact(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, err
	}
	defer file.Close()

	info, statErr := file.Stat()
	if statErr != nil {
		return nil, statErr
	}
	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		return []byte{}, nil
	}

	mapped, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	if mmapErr != nil {
		return nil, fmt.Errorf("resources: error trying to mmap %s: %v",
			path, mmapErr)
	}
	defer mapped.Unmap()

	data := make([]byte, len(mapped))
	copy(data, mapped)
	return data, nil
}
