package snippets

import (
	"reflect"
	"testing"
)

func TestTagsRoundTrip(t *testing.T) {
	enc := encodeTags([]string{"a", "b"})
	if enc == nil || *enc != "a,b" {
		t.Fatalf("unexpected encoding: %v", enc)
	}
	got := decodeTags(enc)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("round trip lost order or values: %v", got)
	}
}

func TestEncodeTagsTrimsAndDrops(t *testing.T) {
	enc := encodeTags([]string{" go ", "", "  ", "db"})
	if enc == nil || *enc != "go,db" {
		t.Fatalf("unexpected encoding: %v", enc)
	}
}

func TestEncodeTagsEmpty(t *testing.T) {
	if encodeTags(nil) != nil {
		t.Fatal("nil tags must encode to nil")
	}
	if encodeTags([]string{}) != nil {
		t.Fatal("empty tags must encode to nil")
	}
	if encodeTags([]string{"  "}) != nil {
		t.Fatal("blank-only tags must encode to nil")
	}
}

func TestDecodeTagsAbsent(t *testing.T) {
	if decodeTags(nil) != nil {
		t.Fatal("nil column must decode to nil")
	}
	empty := ""
	if decodeTags(&empty) != nil {
		t.Fatal("empty column must decode to nil")
	}
}

func TestDecodeTagsTrims(t *testing.T) {
	enc := " a , b ,, c "
	got := decodeTags(&enc)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected decode: %v", got)
	}
}

func TestSortedTagSet(t *testing.T) {
	seen := map[string]struct{}{}
	for _, enc := range []string{"b,a", "a,c"} {
		e := enc
		for _, tag := range decodeTags(&e) {
			seen[tag] = struct{}{}
		}
	}
	got := sortedTagSet(seen)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected tag set: %v", got)
	}
}
