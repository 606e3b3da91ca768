package describe

import "testing"

func TestAppend_WithName(t *testing.T) {
	got := Append(nil, "connection", "db1", 0)
	if string(got) != "connection 'db1'" {
		t.Fatalf("Append = %q, want connection 'db1'", got)
	}
}

func TestAppend_WithoutName(t *testing.T) {
	got := Append(nil, "connection", "", 0)
	if string(got) != "connection" {
		t.Fatalf("Append = %q, want connection", got)
	}
}

func TestAppend_PreservesExistingContent(t *testing.T) {
	buf := []byte("failed to open ")
	got := Append(buf, "transaction", "tx-7", 0)
	if string(got) != "failed to open transaction 'tx-7'" {
		t.Fatalf("Append = %q", got)
	}
}

func TestAppend_HeadroomAvoidsSecondGrowth(t *testing.T) {
	suffix := ": no route to host"
	got := Append(nil, "connection", "primary", len(suffix))
	before := cap(got)
	got = append(got, suffix...)
	if cap(got) != before {
		t.Fatalf("append within headroom reallocated: cap %d -> %d", before, cap(got))
	}
	if string(got) != "connection 'primary': no route to host" {
		t.Fatalf("final text = %q", got)
	}
}

func TestAppend_SingleGrowth(t *testing.T) {
	buf := make([]byte, 0, 4)
	got := Append(buf, "row", "r1", 8)
	if want := len("row 'r1'") + 8; cap(got) < want {
		t.Fatalf("capacity %d, want at least %d", cap(got), want)
	}
}

type fakeNamed struct {
	class string
	name  string
}

func (f fakeNamed) ClassName() string { return f.class }
func (f fakeNamed) Name() string      { return f.name }

func TestLabel(t *testing.T) {
	if got := Label(fakeNamed{"connection", "db1"}); got != "connection 'db1'" {
		t.Fatalf("Label = %q", got)
	}
	if got := Label(fakeNamed{"connection", ""}); got != "connection" {
		t.Fatalf("Label = %q", got)
	}
}
