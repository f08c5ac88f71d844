package credentials

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewStore(func(s *DefaultStore) { s.backend = NewFallbackBackendWithPath(path) })
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com", KindToken, "secret-value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, err := store.Get("registry.example.com", KindToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "secret-value" {
		t.Fatalf("expected %q, got %q", "secret-value", value)
	}
}

func TestStore_SetGetRoundTrip_HostWithPort(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com:8443", KindToken, "secret-value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, err := store.Get("registry.example.com:8443", KindToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "secret-value" {
		t.Fatalf("expected %q, got %q", "secret-value", value)
	}
}

func TestStore_GetMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("registry.example.com", KindToken); err == nil {
		t.Fatal("expected an error for a missing credential")
	}
}

func TestStore_DeleteRemovesCredential(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com", KindToken, "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete("registry.example.com", KindToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	exists, err := store.Exists("registry.example.com", KindToken)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("expected credential to no longer exist after delete")
	}
}

func TestStore_ListScopedToHost(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com", KindToken, "a"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("registry.example.com", KindUsername, "b"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("other.example.com", KindToken, "c"); err != nil {
		t.Fatal(err)
	}

	kinds, err := store.List("registry.example.com")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 kinds in host, got %d: %v", len(kinds), kinds)
	}
}

func TestStore_Hosts(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com", KindToken, "a"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("other.example.com", KindToken, "b"); err != nil {
		t.Fatal(err)
	}

	hosts, err := store.Hosts()
	if err != nil {
		t.Fatalf("Hosts: %v", err)
	}
	if len(hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d: %v", len(hosts), hosts)
	}
}

func TestStore_InvalidHostRejected(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("", KindToken, "v"); err == nil {
		t.Fatal("expected an error for an empty host")
	}
	if err := store.Set("has a space", KindToken, "v"); err == nil {
		t.Fatal("expected an error for a host with a space")
	}
	if err := store.Set("https://registry.example.com", KindToken, "v"); err == nil {
		t.Fatal("expected an error for a full URL instead of a bare host")
	}
}

func TestStore_InvalidKindRejected(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("registry.example.com", CredentialKind("bearer-magic"), "v"); err == nil {
		t.Fatal("expected an error for an unrecognized credential kind")
	}
}

func TestStore_ExpiredCredentialIsEvicted(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetWithExpiry("registry.example.com", KindToken, "v", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("SetWithExpiry: %v", err)
	}

	if _, err := store.Get("registry.example.com", KindToken); err == nil {
		t.Fatal("expected an error for an expired credential")
	}

	exists, err := store.Exists("registry.example.com", KindToken)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("expected the expired credential to have been evicted")
	}
}

func TestStore_UnexpiredCredentialIsReturned(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetWithExpiry("registry.example.com", KindToken, "v", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetWithExpiry: %v", err)
	}

	value, err := store.Get("registry.example.com", KindToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "v" {
		t.Fatalf("expected %q, got %q", "v", value)
	}
}

func TestClearString(t *testing.T) {
	s := "sensitive"
	ClearString(&s)
	if s != "" {
		t.Fatalf("expected cleared string to be empty, got %q", s)
	}
}

func TestFallbackBackend_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	first := NewFallbackBackendWithPath(path)
	if err := first.Set("registry.example.com:token", "persisted"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := NewFallbackBackendWithPath(path)
	value, err := second.Get("registry.example.com:token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "persisted" {
		t.Fatalf("expected %q, got %q", "persisted", value)
	}
}
