package tracesource

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"

	"github.com/flashbots/mev-inspect-go/pkg/trace"
)

// DiskCache wraps a Source with a local, content-addressed cache: once
// a hash's trace has been fetched, it's immutable (a transaction's
// trace never changes), so a cache hit never needs to check staleness
// against the underlying Source.
type DiskCache struct {
	root string
	next Source
}

func NewDiskCache(root string, next Source) *DiskCache {
	return &DiskCache{root: root, next: next}
}

type cachedTrace struct {
	Frames  []trace.RawFrame `json:"frames"`
	Logs    []trace.RawLog   `json:"logs"`
	Receipt trace.RawReceipt `json:"receipt"`
}

func (d *DiskCache) path(hash common.Hash) string {
	return filepath.Join(d.root, hash.Hex()+".json.gz")
}

func (d *DiskCache) Trace(ctx context.Context, hash common.Hash) ([]trace.RawFrame, []trace.RawLog, trace.RawReceipt, error) {
	if cached, ok, err := d.read(hash); err != nil {
		return nil, nil, trace.RawReceipt{}, fmt.Errorf("%w: reading cache: %v", ErrTraceFetch, err)
	} else if ok {
		return cached.Frames, cached.Logs, cached.Receipt, nil
	}

	frames, logs, receipt, err := d.next.Trace(ctx, hash)
	if err != nil {
		return nil, nil, trace.RawReceipt{}, err
	}

	if err := d.write(hash, cachedTrace{Frames: frames, Logs: logs, Receipt: receipt}); err != nil {
		return nil, nil, trace.RawReceipt{}, fmt.Errorf("%w: writing cache: %v", ErrTraceFetch, err)
	}
	return frames, logs, receipt, nil
}

func (d *DiskCache) read(hash common.Hash) (cachedTrace, bool, error) {
	f, err := os.Open(d.path(hash))
	if os.IsNotExist(err) {
		return cachedTrace{}, false, nil
	}
	if err != nil {
		return cachedTrace{}, false, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return cachedTrace{}, false, err
	}
	defer gz.Close()

	var out cachedTrace
	if err := json.NewDecoder(gz).Decode(&out); err != nil {
		return cachedTrace{}, false, err
	}
	return out, true, nil
}

func (d *DiskCache) write(hash common.Hash, ct cachedTrace) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, "trace-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	gz := gzip.NewWriter(tmp)
	if err := json.NewEncoder(gz).Encode(ct); err != nil {
		tmp.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.path(hash))
}
