// Command byteavec_gen regenerates the bytea conformance vectors under
// testdata/conformance/bytea/v1. Run it from the repository root after
// changing the vector set.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veldtlabs/pqbin/bytea"
)

var vectors = []struct {
	name    string
	payload []byte
}{
	{"empty", nil},
	{"greeting", []byte("hello, bytea")},
	{"mixed", []byte{0x00, 0x01, 0x0f, 0x10, 0x7f, 0x80, 0xff}},
}

func main() {
	dir := filepath.Join("testdata", "conformance", "bytea", "v1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	for _, v := range vectors {
		binPath := filepath.Join(dir, v.name+".bin")
		escPath := filepath.Join(dir, v.name+".esc")
		if err := os.WriteFile(binPath, v.payload, 0o644); err != nil {
			panic(err)
		}
		if err := os.WriteFile(escPath, []byte(bytea.Escape(v.payload)), 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("%s: %d payload bytes\n", v.name, len(v.payload))
	}
}
