package helper

import (
	"context"
	"testing"
	"time"

	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/testutil"
)

func TestDBBlacklist(t *testing.T) {
	db := testutil.OpenDB(t)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	bl := NewDBBlacklist(db, "secret", helper.FixedClock{T: now})
	ctx := context.Background()

	if err := bl.Add(ctx, "token-a", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	// idempotent, memperpanjang masa berlaku
	if err := bl.Add(ctx, "token-a", now.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := bl.Add(ctx, "token-expired", now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	if ok, err := bl.IsBlacklisted(ctx, "token-a"); err != nil || !ok {
		t.Fatalf("token-a blacklisted = %v (%v)", ok, err)
	}
	if ok, _ := bl.IsBlacklisted(ctx, "token-b"); ok {
		t.Fatal("unknown token reported as blacklisted")
	}
	if ok, _ := bl.IsBlacklisted(ctx, "token-expired"); ok {
		t.Fatal("expired token should not be stored")
	}

	later := NewDBBlacklist(db, "secret", helper.FixedClock{T: now.Add(3 * time.Hour)})
	if ok, _ := later.IsBlacklisted(ctx, "token-a"); ok {
		t.Fatal("entry should lapse after expiry")
	}
	n, err := later.PurgeExpired(ctx)
	if err != nil || n != 1 {
		t.Fatalf("purged = %d (%v), want 1", n, err)
	}
}

func TestBlacklistHashesToken(t *testing.T) {
	a := hmacHex("token", "k1")
	if a == "token" || len(a) != 64 {
		t.Fatalf("unexpected hash %q", a)
	}
	if a == hmacHex("token", "k2") {
		t.Fatal("hash must depend on secret")
	}
}
