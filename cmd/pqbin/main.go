// Command pqbin is the CLI for the bytea codec, the payload archive, and
// payload seals.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/veldtlabs/pqbin/blob"
	"github.com/veldtlabs/pqbin/blob/bundle"
	"github.com/veldtlabs/pqbin/blob/localfs"
	"github.com/veldtlabs/pqbin/bytea"
	"github.com/veldtlabs/pqbin/seal"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "esc":
		return cmdEsc(args[1:], out, errOut)
	case "unesc":
		return cmdUnesc(args[1:], out, errOut)
	case "blob":
		return cmdBlob(args[1:], out, errOut)
	case "seal":
		return cmdSeal(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pqbin: bytea codec, payload archive, and seal CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pqbin esc [<file>]")
	fmt.Fprintln(w, "  pqbin unesc [<file>]")
	fmt.Fprintln(w, "  pqbin blob put --store <dir> [--mirror <dir> ...] [<file>]")
	fmt.Fprintln(w, "  pqbin blob get --store <dir> <id>")
	fmt.Fprintln(w, "  pqbin blob has --store <dir> <id>")
	fmt.Fprintln(w, "  pqbin blob export --store <dir> --out <bundle.tar> [--index] <id> ...")
	fmt.Fprintln(w, "  pqbin seal --signer <name> [--keys <dir>] [--hash sha256|sha512|sha3-256] [<file>]")
	fmt.Fprintln(w, "  pqbin verify --seal <seal.json> [<file>]")
	fmt.Fprintln(w, "  pqbin key init --name <name> [--seed-hex <64hex>] [--keys <dir>] [--force]")
	fmt.Fprintln(w, "  pqbin key list [--keys <dir>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - omitting <file> (or passing \"-\") reads from stdin")
	fmt.Fprintln(w, "  - esc output is the \\x hex form; unesc accepts either digit case")
	fmt.Fprintln(w, "  - keys live under ~/.pqbin/keys by default (0600 seed files)")
	fmt.Fprintln(w, "  - blob put prints the payload id; --mirror replicates to extra stores")
}

// readInput reads a positional file argument, or stdin for "" / "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func cmdEsc(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("esc", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pqbin esc [<file>]")
		return 2
	}
	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, bytea.Escape(b))
	return 0
}

func cmdUnesc(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("unesc", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pqbin unesc [<file>]")
		return 2
	}
	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	raw, err := bytea.Unescape(strings.TrimRight(string(b), "\r\n"))
	if err != nil {
		fmt.Fprintf(errOut, "invalid escaped text: %v\n", err)
		return 1
	}
	if _, err := out.Write(raw); err != nil {
		fmt.Fprintf(errOut, "write output: %v\n", err)
		return 1
	}
	return 0
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func cmdBlob(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: pqbin blob <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: put, get, has, export")
		return 2
	}
	switch args[0] {
	case "put":
		return cmdBlobPut(args[1:], out, errOut)
	case "get":
		return cmdBlobGet(args[1:], out, errOut)
	case "has":
		return cmdBlobHas(args[1:], out, errOut)
	case "export":
		return cmdBlobExport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown blob subcommand: %s\n", args[0])
		return 2
	}
}

func openStore(dir string, errOut io.Writer) (blob.Store, bool) {
	if dir == "" {
		fmt.Fprintln(errOut, "--store is required")
		return nil, false
	}
	s, err := localfs.New(dir)
	if err != nil {
		fmt.Fprintf(errOut, "open store: %v\n", err)
		return nil, false
	}
	return s, true
}

func cmdBlobPut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("blob put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	storeDir := fs.String("store", "", "payload store directory")
	var mirrors multiFlag
	fs.Var(&mirrors, "mirror", "additional store directory to replicate to (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pqbin blob put --store <dir> [--mirror <dir> ...] [<file>]")
		return 2
	}

	primary, ok := openStore(*storeDir, errOut)
	if !ok {
		return 2
	}
	payload, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}

	if len(mirrors) == 0 {
		id, err := primary.Put(payload)
		if err != nil {
			fmt.Fprintf(errOut, "put: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id)
		return 0
	}

	backends := []blob.NamedStore{{Name: *storeDir, Store: primary}}
	for _, dir := range mirrors {
		m, ok := openStore(dir, errOut)
		if !ok {
			return 2
		}
		backends = append(backends, blob.NamedStore{Name: dir, Store: m})
	}
	r := blob.Replicating{Backends: backends}
	id, _, err := r.PutAll(payload)
	if err != nil {
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func cmdBlobGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("blob get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	storeDir := fs.String("store", "", "payload store directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pqbin blob get --store <dir> <id>")
		return 2
	}
	s, ok := openStore(*storeDir, errOut)
	if !ok {
		return 2
	}
	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid id: %v\n", err)
		return 2
	}
	payload, err := s.Get(id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	if _, err := out.Write(payload); err != nil {
		fmt.Fprintf(errOut, "write output: %v\n", err)
		return 1
	}
	return 0
}

func cmdBlobHas(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("blob has", flag.ContinueOnError)
	fs.SetOutput(errOut)
	storeDir := fs.String("store", "", "payload store directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pqbin blob has --store <dir> <id>")
		return 2
	}
	s, ok := openStore(*storeDir, errOut)
	if !ok {
		return 2
	}
	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid id: %v\n", err)
		return 2
	}
	if !s.Has(id) {
		_, _ = fmt.Fprintln(out, "false")
		return 1
	}
	_, _ = fmt.Fprintln(out, "true")
	return 0
}

func cmdBlobExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("blob export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	storeDir := fs.String("store", "", "payload store directory")
	outPath := fs.String("out", "", "bundle output file")
	withIndex := fs.Bool("index", false, "include index.json in the bundle")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: pqbin blob export --store <dir> --out <bundle.tar> [--index] <id> ...")
		return 2
	}
	s, ok := openStore(*storeDir, errOut)
	if !ok {
		return 2
	}

	ids := make([]cid.Cid, 0, fs.NArg())
	for _, arg := range fs.Args() {
		id, err := cid.Decode(arg)
		if err != nil {
			fmt.Fprintf(errOut, "invalid id %q: %v\n", arg, err)
			return 2
		}
		ids = append(ids, id)
	}

	var buf bytes.Buffer
	if err := bundle.Export(&buf, s, ids, bundle.ExportOptions{IncludeIndex: *withIndex}); err != nil {
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(errOut, "write bundle: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "wrote %d payloads to %s\n", len(ids), *outPath)
	return 0
}

func cmdSeal(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("seal", flag.ContinueOnError)
	fs.SetOutput(errOut)
	signer := fs.String("signer", "", "key name in the keystore")
	keysDir := fs.String("keys", "", "keystore directory (default ~/.pqbin/keys)")
	hashAlg := fs.String("hash", seal.HashSHA256, "digest algorithm: sha256, sha512, sha3-256")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *signer == "" || fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pqbin seal --signer <name> [--keys <dir>] [--hash <alg>] [<file>]")
		return 2
	}

	ks, err := seal.OpenKeystore(*keysDir)
	if err != nil {
		fmt.Fprintf(errOut, "open keystore: %v\n", err)
		return 1
	}
	priv, err := ks.Load(*signer)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return 1
	}
	payload, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}

	s, err := seal.SignEd25519(payload, *hashAlg, priv)
	if err != nil {
		fmt.Fprintf(errOut, "seal: %v\n", err)
		return 1
	}
	b, err := seal.Encode(s)
	if err != nil {
		fmt.Fprintf(errOut, "encode seal: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	sealPath := fs.String("seal", "", "seal document file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *sealPath == "" || fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pqbin verify --seal <seal.json> [<file>]")
		return 2
	}

	sealBytes, err := os.ReadFile(*sealPath)
	if err != nil {
		fmt.Fprintf(errOut, "read seal: %v\n", err)
		return 1
	}
	s, err := seal.Decode(sealBytes)
	if err != nil {
		fmt.Fprintf(errOut, "invalid seal: %v\n", err)
		return 1
	}
	payload, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}

	if err := seal.Verify(payload, s); err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK", s.PayloadID)
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: pqbin key <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: init, list")
		return 2
	}
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "key name")
		seedHex := fs.String("seed-hex", "", "32-byte ed25519 seed as 64 hex chars (random when omitted)")
		keysDir := fs.String("keys", "", "keystore directory (default ~/.pqbin/keys)")
		force := fs.Bool("force", false, "overwrite an existing key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *name == "" {
			fmt.Fprintln(errOut, "usage: pqbin key init --name <name> [--seed-hex <64hex>] [--keys <dir>] [--force]")
			return 2
		}
		ks, err := seal.OpenKeystore(*keysDir)
		if err != nil {
			fmt.Fprintf(errOut, "open keystore: %v\n", err)
			return 1
		}
		var sd []byte
		if *seedHex != "" {
			sd, err = seal.ParseSeedHex(*seedHex)
			if err != nil {
				fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
				return 2
			}
		}
		path, err := ks.Init(*name, sd, *force)
		if err != nil {
			fmt.Fprintf(errOut, "init key: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, path)
		return 0
	case "list":
		fs := flag.NewFlagSet("key list", flag.ContinueOnError)
		fs.SetOutput(errOut)
		keysDir := fs.String("keys", "", "keystore directory (default ~/.pqbin/keys)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		ks, err := seal.OpenKeystore(*keysDir)
		if err != nil {
			fmt.Fprintf(errOut, "open keystore: %v\n", err)
			return 1
		}
		names, err := ks.List()
		if err != nil {
			fmt.Fprintf(errOut, "list keys: %v\n", err)
			return 1
		}
		for _, n := range names {
			_, _ = fmt.Fprintln(out, n)
		}
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}
