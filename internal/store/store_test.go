package store

import (
	"testing"

	"github.com/frostmere/server/internal/srp"
	"github.com/frostmere/server/internal/world"
)

func newChar(db *CharacterDB, name, account string) *world.Character {
	return &world.Character{
		GUID:    db.NewGUID(),
		Name:    name,
		Account: account,
		Level:   1,
	}
}

func TestCharacterGUIDsMonotonic(t *testing.T) {
	db := NewCharacterDB()
	a := db.NewGUID()
	b := db.NewGUID()
	if b <= a {
		t.Fatalf("guids not monotonic: %d then %d", a, b)
	}

	// A deleted character's guid is never handed out again.
	c := newChar(db, "Gone", "TEST")
	if err := db.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	db.Delete(c.GUID)
	if next := db.NewGUID(); next <= c.GUID {
		t.Errorf("guid %d reissued at or below deleted %d", next, c.GUID)
	}
}

func TestCharacterNameReservation(t *testing.T) {
	db := NewCharacterDB()
	if err := db.Create(newChar(db, "Arthas", "ONE")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Names are reserved case-insensitively, across accounts.
	if err := db.Create(newChar(db, "ARTHAS", "TWO")); err == nil {
		t.Fatal("duplicate name should be rejected")
	}

	got, ok := db.FindByName("arthas")
	if !ok || got.Name != "Arthas" {
		t.Fatalf("FindByName = (%v, %v)", got, ok)
	}
}

func TestCharacterDeleteFreesName(t *testing.T) {
	db := NewCharacterDB()
	c := newChar(db, "Sylvanas", "ONE")
	if err := db.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	db.Delete(c.GUID)

	if _, ok := db.FindByName("Sylvanas"); ok {
		t.Fatal("deleted character still resolvable by name")
	}
	if err := db.Create(newChar(db, "Sylvanas", "TWO")); err != nil {
		t.Fatalf("name not freed after delete: %v", err)
	}
}

func TestCharacterSnapshotsDoNotAlias(t *testing.T) {
	db := NewCharacterDB()
	c := newChar(db, "Uther", "ONE")
	c.Level = 10
	if err := db.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	snap, _ := db.Get(c.GUID)
	snap.Level = 60
	again, _ := db.Get(c.GUID)
	if again.Level != 10 {
		t.Errorf("stored level = %d, mutation leaked through a snapshot", again.Level)
	}
}

func TestListForAccount(t *testing.T) {
	db := NewCharacterDB()
	b := newChar(db, "Beta", "Main")
	a := newChar(db, "Alpha", "main") // account matching is case-insensitive
	other := newChar(db, "Other", "alt")
	for _, c := range []*world.Character{b, a, other} {
		if err := db.Create(c); err != nil {
			t.Fatalf("Create(%s): %v", c.Name, err)
		}
	}

	got := db.ListForAccount("MAIN")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Guid order, which is creation order.
	if got[0].Name != "Beta" || got[1].Name != "Alpha" {
		t.Errorf("order = [%s %s], want [Beta Alpha]", got[0].Name, got[1].Name)
	}
}

func TestAccountAutoCreate(t *testing.T) {
	db := NewAccountDB(true)
	acct, ok := db.Lookup("newbie")
	if !ok {
		t.Fatal("auto-create lookup failed")
	}
	if acct.Name != "NEWBIE" {
		t.Errorf("Name = %q, want NEWBIE", acct.Name)
	}

	// The password equals the account name: verifier must match.
	want := srp.CalculateVerifier("newbie", "newbie", acct.Salt)
	if acct.Verifier != want {
		t.Error("auto-created verifier not derived from name-as-password")
	}

	// Second lookup returns the same account, not a new one.
	again, ok := db.Lookup("NEWBIE")
	if !ok || again.Salt != acct.Salt {
		t.Error("second lookup created a different account")
	}
	if db.Count() != 1 {
		t.Errorf("Count = %d, want 1", db.Count())
	}
}

func TestAccountLookupWithoutAutoCreate(t *testing.T) {
	db := NewAccountDB(false)
	if _, ok := db.Lookup("ghost"); ok {
		t.Fatal("unknown account resolved with auto-create off")
	}
	if _, err := db.Create("real", "password"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := db.Lookup("real"); !ok {
		t.Fatal("created account not found")
	}
	if _, err := db.Create("REAL", "other"); err == nil {
		t.Fatal("duplicate account create should fail")
	}
}

func TestSessionKeys(t *testing.T) {
	db := NewAccountDB(true)
	var key [srp.KeySize]byte
	key[0] = 0xAA

	if _, ok := db.SessionKey("jaina"); ok {
		t.Fatal("session key present before logon")
	}
	db.SetSessionKey("jaina", key)
	got, ok := db.SessionKey("JAINA")
	if !ok || got != key {
		t.Fatalf("SessionKey = (%v, %v)", got[:4], ok)
	}
}
