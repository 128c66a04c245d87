package resources

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteCounter counts the number of bytes written to it, and every 10
// seconds, it prints a message reporting the number of bytes written so
// far.
type WriteCounter struct {
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Now().Sub(wc.Last).Seconds() > 10 {
		wc.Reported = true
		wc.Last = time.Now()
		log.Printf("Downloading %s... %s / %s completed.",
			wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size))
	}
	return n, nil
}

func isValidUrl(toTest string) bool {
	if _, err := url.ParseRequestURI(toTest); err != nil {
		return false
	}
	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return true
}

// FetchHTTP fetches a resource from a remote HTTP server.
func FetchHTTP(uri string, rsrc string) (io.ReadCloser, error) {
	resp, remoteErr := http.Get(uri + "/" + rsrc)
	if remoteErr != nil {
		return nil, remoteErr
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// SizeHTTP gets the size of a resource from a remote HTTP server.
func SizeHTTP(uri string, rsrc string) (uint, error) {
	resp, remoteErr := http.Head(uri + "/" + rsrc)
	if remoteErr != nil {
		return 0, remoteErr
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return 0, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	size, _ := strconv.Atoi(resp.Header.Get("Content-Length"))
	return uint(size), nil
}

// Fetch
// Given a base URI and a resource name, determines if the resource is
// local or remote. If the resource is local, it returns a file handle to
// the resource; if remote, it fetches the resource and returns a
// ReadCloser to it.
func Fetch(uri string, rsrc string) (io.ReadCloser, error) {
	if isValidUrl(uri) {
		return FetchHTTP(uri, rsrc)
	}
	handle, fileErr := os.Open(path.Join(uri, rsrc))
	if fileErr != nil {
		if os.IsNotExist(fileErr) {
			return nil, fmt.Errorf("%w: %s/%s", ErrMissingArtifact, uri, rsrc)
		}
		return nil, fmt.Errorf("error opening %s/%s: %v", uri, rsrc, fileErr)
	}
	return handle, nil
}

// Size
// Given a base URI and a resource name, determine the size of the
// resource.
func Size(uri string, rsrc string) (uint, error) {
	if isValidUrl(uri) {
		return SizeHTTP(uri, rsrc)
	}
	fsz, err := os.Stat(path.Join(uri, rsrc))
	if err != nil {
		return 0, err
	}
	return uint(fsz.Size()), nil
}

// ResolveArtifacts ensures the three model artifacts exist under dir,
// fetching any that are missing or stale from uri. A uri equal to the
// target directory resolves to an existence check. All three artifacts
// are required; a missing one fails the resolve.
func ResolveArtifacts(uri string, dir string) error {
	if uri == dir {
		for _, rsrc := range []string{VocabFile, MergesFile, ModelFile} {
			if _, err := os.Stat(path.Join(dir, rsrc)); err != nil {
				return fmt.Errorf("%w: %s", ErrMissingArtifact,
					path.Join(dir, rsrc))
			}
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, rsrc := range []string{VocabFile, MergesFile, ModelFile} {
		log.Printf("Resolving %s/%s... ", uri, rsrc)
		rsrcSize, sizeErr := Size(uri, rsrc)
		if sizeErr != nil {
			return fmt.Errorf("cannot retrieve required `%s` from `%s`: %v",
				rsrc, uri, sizeErr)
		}
		targetPath := path.Join(dir, rsrc)
		if stat, statErr := os.Stat(targetPath); statErr == nil &&
			uint(stat.Size()) == rsrcSize {
			log.Printf("Skipping %s/%s... already exists, "+
				"and of the correct size.", uri, rsrc)
			continue
		}
		reader, fetchErr := Fetch(uri, rsrc)
		if fetchErr != nil {
			return fetchErr
		}
		target, createErr := os.Create(targetPath)
		if createErr != nil {
			reader.Close()
			return fmt.Errorf("error opening '%s' for write: %v",
				targetPath, createErr)
		}
		counter := &WriteCounter{
			Last: time.Now(),
			Path: fmt.Sprintf("%s/%s", uri, rsrc),
			Size: uint64(rsrcSize),
		}
		written, copyErr := io.Copy(target, io.TeeReader(reader, counter))
		reader.Close()
		target.Close()
		if copyErr != nil {
			return fmt.Errorf("error downloading '%s': %v", rsrc, copyErr)
		}
		log.Printf("Downloaded %s/%s... %s completed.", uri, rsrc,
			humanize.Bytes(uint64(written)))
	}
	return nil
}
