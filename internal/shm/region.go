/*
 * Copyright 2026 Sharingway authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shm

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// regionHeaderSize is the length of the little-endian u32 length prefix.
const regionHeaderSize = 4

// Region is a named, fixed-size memory-mapped region holding a single
// length-prefixed document. All access must be externally serialized by a
// Sync; Region itself performs no locking.
type Region struct {
	name     string
	path     string
	file     *os.File
	mem      []byte
	capacity int
	logger   *zap.Logger
}

// AttachRegion opens the named region if it already exists, or creates one
// sized to capacity if absent. An attacher that opens rather than creates
// receives the region's existing capacity.
func AttachRegion(logger *zap.Logger, name string, capacity int, mode NamespaceMode, root string) (*Region, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dirs, err := candidateDirs(mode, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fileName := sanitizeName(name)
	var lastErr error
	for _, dir := range dirs {
		path := filepath.Join(dir, fileName)
		region, err := attachRegionAt(logger, name, path, capacity)
		if err == nil {
			return region, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func attachRegionAt(logger *zap.Logger, name, path string, capacity int) (*Region, error) {
	file, created, err := openOrCreate(path, capacity)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	size := int(info.Size())
	mem, err := mmapFile(file, size)
	if err != nil {
		file.Close()
		return nil, err
	}
	logger.Debug("region attached",
		zap.String("component", "region"),
		zap.String("name", name),
		zap.String("path", path),
		zap.Bool("created", created),
		zap.Int("capacity", size),
	)
	return &Region{name: name, path: path, file: file, mem: mem, capacity: size, logger: logger}, nil
}

// openOrCreate implements a boot-race-free open-else-create sequence: try
// to open an existing file; if absent, create it exclusively; if another
// attacher won the creation race, loop back to opening what it created.
func openOrCreate(path string, capacity int) (file *os.File, created bool, err error) {
	for {
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err == nil {
			return f, false, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, err
		}

		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err == nil {
			if terr := f.Truncate(int64(capacity)); terr != nil {
				f.Close()
				os.Remove(path)
				return nil, false, terr
			}
			return f, true, nil
		}
		if os.IsExist(err) {
			continue
		}
		return nil, false, err
	}
}

// Capacity returns the usable payload capacity: the region's total size
// minus the length-prefix header.
func (r *Region) Capacity() int {
	if r.capacity < regionHeaderSize {
		return 0
	}
	return r.capacity - regionHeaderSize
}

// Write copies payload into the region and publishes its length. The
// payload bytes are written before the length header, so a reader that
// observes the new length never sees a torn payload.
func (r *Region) Write(payload []byte) error {
	if r.mem == nil {
		return ErrDetached
	}
	if regionHeaderSize+len(payload) > r.capacity {
		return ErrOversize
	}
	copy(r.mem[regionHeaderSize:regionHeaderSize+len(payload)], payload)
	binary.LittleEndian.PutUint32(r.mem[0:4], uint32(len(payload)))
	return nil
}

// Read returns the current payload, nil (with a nil error) if no document
// has been published yet, or ErrDecode if the header is invalid.
func (r *Region) Read() ([]byte, error) {
	if r.mem == nil {
		return nil, ErrDetached
	}
	n := binary.LittleEndian.Uint32(r.mem[0:4])
	if n == 0 {
		return nil, nil
	}
	if int(n) > r.capacity-regionHeaderSize {
		return nil, ErrDecode
	}
	out := make([]byte, n)
	copy(out, r.mem[regionHeaderSize:regionHeaderSize+int(n)])
	return out, nil
}

// Close unmaps the region and closes its backing file handle. The backing
// file itself is left in place: a region's lifetime ends only when the OS
// reclaims it after the last handle detaches, and on a filesystem-backed
// region that means an explicit administrative cleanup this package does
// not perform.
func (r *Region) Close() error {
	if r.mem == nil {
		return nil
	}
	err := munmapFile(r.mem)
	r.mem = nil
	if cerr := r.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
