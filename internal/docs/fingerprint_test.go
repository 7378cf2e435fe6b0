package docs

import "testing"

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := Fingerprint("p1", []string{"f3", "f1", "f2"})
	b := Fingerprint("p1", []string{"f1", "f2", "f3"})
	if a != b {
		t.Fatalf("order must not matter: %q vs %q", a, b)
	}
	if a != "p1:f1,f2,f3" {
		t.Fatalf("unexpected fingerprint: %q", a)
	}
}

func TestFingerprint_DedupesAndTrims(t *testing.T) {
	got := Fingerprint("p1", []string{" f1 ", "f1", "", "f2"})
	if got != "p1:f1,f2" {
		t.Fatalf("got %q", got)
	}
}

func TestFingerprint_DistinguishesProjectsAndSets(t *testing.T) {
	if Fingerprint("p1", []string{"f1"}) == Fingerprint("p2", []string{"f1"}) {
		t.Fatal("different projects must differ")
	}
	if Fingerprint("p1", []string{"f1"}) == Fingerprint("p1", []string{"f1", "f2"}) {
		t.Fatal("different feature sets must differ")
	}
}

func TestFingerprint_EmptyFeatures(t *testing.T) {
	if got := Fingerprint("p1", nil); got != "p1:" {
		t.Fatalf("got %q", got)
	}
}
