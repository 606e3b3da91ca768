// Package bundle exports and imports payload archives as deterministic TAR
// bundles, for moving bytea payload sets between stores offline.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/veldtlabs/pqbin/blob"
	"github.com/veldtlabs/pqbin/payloadid"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// Labels is optional, non-authoritative metadata mapping names to ids.
	Labels map[string]cid.Cid
	// IncludeIndex controls whether index.json is included.
	IncludeIndex bool
}

// Export writes a deterministic TAR bundle containing the payloads for the
// given ids: entry order is lexicographic and TAR headers are normalized.
// All exported bytes are re-validated against their ids.
func Export(w io.Writer, store blob.Store, ids []cid.Cid, opts ExportOptions) error {
	if store == nil {
		return fmt.Errorf("bundle: nil store")
	}

	uniq := make(map[string]cid.Cid, len(ids))
	for _, id := range ids {
		if !id.Defined() {
			return blob.ErrInvalidID
		}
		uniq[id.String()] = id
	}

	idStrings := make([]string, 0, len(uniq))
	for s := range uniq {
		idStrings = append(idStrings, s)
	}
	sort.Strings(idStrings)

	tw := tar.NewWriter(w)

	entries := make([]indexPayload, 0, len(idStrings))
	for _, s := range idStrings {
		id := uniq[s]
		b, err := store.Get(id)
		if err != nil {
			_ = tw.Close()
			return err
		}
		got, err := payloadid.New(b)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if got != id {
			_ = tw.Close()
			return blob.ErrMismatch
		}

		if err := writeFile(tw, "payloads/"+id.String(), b); err != nil {
			_ = tw.Close()
			return err
		}
		entries = append(entries, indexPayload{ID: id.String(), Size: len(b)})
	}

	if opts.IncludeIndex {
		idx := indexJSON{
			Version:   FormatVersion,
			IDCodec:   "raw",
			Multihash: "sha2-256",
			Payloads:  entries,
		}

		if len(opts.Labels) > 0 {
			keys := make([]string, 0, len(opts.Labels))
			for k := range opts.Labels {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			labels := make([]indexLabel, 0, len(keys))
			for _, k := range keys {
				if k == "" {
					_ = tw.Close()
					return fmt.Errorf("bundle: empty label key")
				}
				v := opts.Labels[k]
				if !v.Defined() {
					_ = tw.Close()
					return blob.ErrInvalidID
				}
				labels = append(labels, indexLabel{Name: k, ID: v.String()})
			}
			idx.Labels = labels
		}

		b, err := marshalIndex(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", b); err != nil {
			_ = tw.Close()
			return err
		}
	}

	return tw.Close()
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown controls whether unknown TAR entries are ignored.
	// Default (false) is fail-closed.
	IgnoreUnknown bool
}

// Import reads a bundle from r and stores every payload in store.
// Unknown entries cause an error; use ImportWithOptions to relax that.
func Import(r io.Reader, store blob.Store) error {
	return ImportWithOptions(r, store, ImportOptions{})
}

// ImportWithOptions reads a bundle from r and stores every payload,
// validating each payload against both its entry name and its computed id.
func ImportWithOptions(r io.Reader, store blob.Store, opts ImportOptions) error {
	if store == nil {
		return fmt.Errorf("bundle: nil store")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}

		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		// Non-authoritative metadata.
		if name == "index.json" || strings.HasPrefix(name, "seals/") {
			_, _ = io.Copy(io.Discard, tr)
			continue
		}

		if !strings.HasPrefix(name, "payloads/") {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return fmt.Errorf("bundle: unknown entry: %s", name)
		}

		idStr := strings.TrimPrefix(name, "payloads/")
		id, derr := cid.Decode(idStr)
		if derr != nil || !id.Defined() {
			return blob.ErrInvalidID
		}

		payload, rerr := io.ReadAll(tr)
		if rerr != nil {
			return rerr
		}
		got, herr := payloadid.New(payload)
		if herr != nil {
			return herr
		}
		if got != id {
			return blob.ErrMismatch
		}

		key := id.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("bundle: duplicate payload entry: %s", key)
		}
		seen[key] = struct{}{}

		putID, perr := store.Put(payload)
		if perr != nil {
			return perr
		}
		if putID != id {
			return blob.ErrMismatch
		}
	}
}

type indexJSON struct {
	Version   int            `json:"version"`
	IDCodec   string         `json:"idCodec"`
	Multihash string         `json:"multihash"`
	Payloads  []indexPayload `json:"payloads"`
	Labels    []indexLabel   `json:"labels,omitempty"`
}

type indexPayload struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

func marshalIndex(idx indexJSON) ([]byte, error) {
	// indexJSON is composed only of structs + slices; encoding/json output
	// is deterministic for it.
	b, err := json.Marshal(idx)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}

	parts := strings.Split(name, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return ""
		}
		out = append(out, part)
	}
	return strings.Join(out, "/")
}
