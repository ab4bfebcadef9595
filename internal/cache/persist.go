package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sys/unix"
)

// Magic marks a file written by this cache format. Files without it are
// discarded on load. The file body is a zstd frame around a CBOR document.
const Magic = "trackr-request-cache/1"

type fileFormat struct {
	Magic   string             `cbor:"magic"`
	Entries map[string][]Entry `cbor:"entries"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("cache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("cache: zstd decoder initialization failed: " + err.Error())
	}
}

func encodeFile(file fileFormat) ([]byte, error) {
	data, err := encMode.Marshal(file)
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(data, nil), nil
}

func decodeFile(compressed []byte) (fileFormat, error) {
	var file fileFormat
	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return file, fmt.Errorf("zstd decompress: %w", err)
	}
	if err := decMode.Unmarshal(data, &file); err != nil {
		return file, err
	}
	if file.Magic != Magic {
		return file, ErrBadMagic
	}
	return file, nil
}

// openLocked opens path with flag and blocks until it holds an exclusive
// lock on it. Closing the file releases the lock.
func openLocked(path string, flag int) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return f, nil
}

// Save flushes expired entries and writes the cache to path under an
// exclusive lock.
func (c *Cache) Save(path string) error {
	c.Flush()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := openLocked(path, os.O_CREATE|os.O_RDWR)
	if err != nil {
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	c.mu.Lock()
	data, err := encodeFile(fileFormat{Magic: Magic, Entries: c.entries})
	n := len(c.entries)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncating cache file: %w", err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	c.logger.Debug("cache saved", "path", path, "urls", n)
	return nil
}

// Load creates a cache from the file at path. A missing file yields an empty
// cache. A file that cannot be decoded, or lacks the magic marker, is removed
// and also yields an empty cache: persisted state is never fatal.
func Load(path string, opts ...Option) *Cache {
	c := New(opts...)
	entries, err := readFile(path)
	switch {
	case err == nil:
		c.entries = entries
		c.logger.Debug("cache loaded", "path", path, "urls", len(entries))
	case errors.Is(err, os.ErrNotExist):
	default:
		c.logger.Warn("discarding unreadable cache file", "path", path, "error", err)
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			c.logger.Warn("removing cache file", "path", path, "error", rerr)
		}
	}
	return c
}

func readFile(path string) (map[string][]Entry, error) {
	f, err := openLocked(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	file, err := decodeFile(data)
	if err != nil {
		return nil, err
	}
	if file.Entries == nil {
		file.Entries = make(map[string][]Entry)
	}
	return file.Entries, nil
}

// Remove deletes the cache file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
