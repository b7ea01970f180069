package filesize

import "testing"

func TestParse_Gigabytes(t *testing.T) {
	n, ok := Parse("4.5 GB")
	if !ok {
		t.Fatal("4.5 GB should parse")
	}
	want := int64(4.5 * float64(GB))
	if n != want {
		t.Errorf("Parse(4.5 GB) = %d, want %d", n, want)
	}
}

func TestParse_Megabytes(t *testing.T) {
	n, ok := Parse("700MB")
	if !ok || n != 700*MB {
		t.Errorf("Parse(700MB) = %d,%v, want %d,true", n, ok, 700*MB)
	}
}

func TestParse_Kilobytes(t *testing.T) {
	n, ok := Parse("512 kb")
	if !ok || n != 512*KB {
		t.Errorf("Parse(512 kb) = %d,%v, want %d,true", n, ok, 512*KB)
	}
}

func TestParse_PlainBytes(t *testing.T) {
	n, ok := Parse("1048576 B")
	if !ok || n != 1048576 {
		t.Errorf("Parse(1048576 B) = %d,%v, want 1048576,true", n, ok)
	}
}

func TestParse_BareNumberAssumesMegabytes(t *testing.T) {
	n, ok := Parse("250")
	if !ok || n != 250*MB {
		t.Errorf("Parse(250) = %d,%v, want %d,true", n, ok, 250*MB)
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, s := range []string{"", "unknown", "a few GB", "-3 GB", "GB"} {
		if _, ok := Parse(s); ok {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}

func TestParsePtr(t *testing.T) {
	if ParsePtr("unknown") != nil {
		t.Error("ParsePtr(unknown) should be nil")
	}
	p := ParsePtr("1 GB")
	if p == nil || *p != GB {
		t.Errorf("ParsePtr(1 GB) = %v, want %d", p, GB)
	}
}
