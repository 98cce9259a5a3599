package trie

import (
	"bytes"
	"testing"
)

func TestEmptyTrieHashIsEmptyRoot(t *testing.T) {
	tr := New()
	if tr.Hash() != EmptyRootHash {
		t.Errorf("empty trie Hash() = %x, want EmptyRootHash", tr.Hash())
	}
	if !tr.Empty() {
		t.Error("Empty() = false for a fresh trie")
	}
}

func TestPutGet(t *testing.T) {
	tr := New()
	if err := tr.Put([]byte("key1"), []byte("value1")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := tr.Get([]byte("key1"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !bytes.Equal(got, []byte("value1")) {
		t.Errorf("Get(key1) = %q, want %q", got, "value1")
	}
}

func TestGetMissingKey(t *testing.T) {
	tr := New()
	tr.Put([]byte("key1"), []byte("value1"))
	if _, err := tr.Get([]byte("nope")); err != ErrNotFound {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}

func TestPutManyAndLen(t *testing.T) {
	tr := New()
	entries := map[string]string{
		"do":    "verb",
		"dog":   "puppy",
		"dodge": "coin",
		"horse": "stallion",
	}
	for k, v := range entries {
		if err := tr.Put([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Put(%s) error: %v", k, err)
		}
	}
	if tr.Len() != len(entries) {
		t.Errorf("Len() = %d, want %d", tr.Len(), len(entries))
	}
	for k, v := range entries {
		got, err := tr.Get([]byte(k))
		if err != nil {
			t.Fatalf("Get(%s) error: %v", k, err)
		}
		if !bytes.Equal(got, []byte(v)) {
			t.Errorf("Get(%s) = %q, want %q", k, got, v)
		}
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	tr := New()
	tr.Put([]byte("do"), []byte("verb"))
	tr.Put([]byte("dog"), []byte("puppy"))
	if err := tr.Delete([]byte("do")); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := tr.Get([]byte("do")); err != ErrNotFound {
		t.Errorf("Get(do) after delete error = %v, want ErrNotFound", err)
	}
	got, err := tr.Get([]byte("dog"))
	if err != nil || !bytes.Equal(got, []byte("puppy")) {
		t.Errorf("Get(dog) after deleting do = (%q, %v), want (puppy, nil)", got, err)
	}
}

func TestHashIsOrderIndependent(t *testing.T) {
	a := New()
	a.Put([]byte("do"), []byte("verb"))
	a.Put([]byte("dog"), []byte("puppy"))
	a.Put([]byte("dodge"), []byte("coin"))

	b := New()
	b.Put([]byte("dodge"), []byte("coin"))
	b.Put([]byte("do"), []byte("verb"))
	b.Put([]byte("dog"), []byte("puppy"))

	if a.Hash() != b.Hash() {
		t.Errorf("Hash() differs by insertion order: %x != %x", a.Hash(), b.Hash())
	}
}

func TestProveAndVerifyRoundTrips(t *testing.T) {
	tr := New()
	entries := map[string]string{
		"do":    "verb",
		"dog":   "puppy",
		"dodge": "coin",
		"horse": "stallion",
	}
	for k, v := range entries {
		tr.Put([]byte(k), []byte(v))
	}
	root := tr.Hash()

	for k, v := range entries {
		proof, err := tr.Prove([]byte(k))
		if err != nil {
			t.Fatalf("Prove(%s) error: %v", k, err)
		}
		got, err := VerifyProof(root, []byte(k), proof)
		if err != nil {
			t.Fatalf("VerifyProof(%s) error: %v", k, err)
		}
		if !bytes.Equal(got, []byte(v)) {
			t.Errorf("VerifyProof(%s) = %q, want %q", k, got, v)
		}
	}
}

func TestVerifyProofRejectsWrongRoot(t *testing.T) {
	tr := New()
	tr.Put([]byte("do"), []byte("verb"))
	tr.Put([]byte("dog"), []byte("puppy"))

	proof, err := tr.Prove([]byte("do"))
	if err != nil {
		t.Fatalf("Prove error: %v", err)
	}
	if _, err := VerifyProof(EmptyRootHash, []byte("do"), proof); err == nil {
		t.Error("VerifyProof against the wrong root succeeded, want error")
	}
}

func TestProveMissingKey(t *testing.T) {
	tr := New()
	tr.Put([]byte("do"), []byte("verb"))
	if _, err := tr.Prove([]byte("nope")); err != ErrNotFound {
		t.Errorf("Prove(nope) error = %v, want ErrNotFound", err)
	}
}
