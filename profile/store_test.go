package profile

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/jawadgarzaldeen1/filling-sub001/dbopen"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDB(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	var v string
	if err := s.Get(context.Background(), "missing", &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCategory_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.Category(ctx)
	if err != nil || got != "" {
		t.Fatalf("empty store: %q, %v", got, err)
	}
	if err := s.SetCategory(ctx, "Plumbing"); err != nil {
		t.Fatal(err)
	}
	got, err = s.Category(ctx)
	if err != nil || got != "Plumbing" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestLocation_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	loc := Location{Country: "Germany", Region: "Bavaria", City: "Munich", Address: "Marienplatz 1"}
	if err := s.SetLocation(ctx, loc); err != nil {
		t.Fatal(err)
	}
	got, err := s.Location(ctx)
	if err != nil || got != loc {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestSocialLinks_ListShape(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	links := []SocialLink{
		{Platform: "facebook", URL: "https://fb.example/u", IsActive: true},
		{Platform: "twitter", URL: "https://tw.example/u", IsActive: false},
	}
	if err := s.SetSocialLinks(ctx, links); err != nil {
		t.Fatal(err)
	}
	got, err := s.SocialLinks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != links[0] || got[1] != links[1] {
		t.Fatalf("got %+v", got)
	}
}

func TestSocialLinks_LegacyMapShape(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeySocialLinks, map[string]string{
		"twitter":  "https://tw.example/u",
		"facebook": "https://fb.example/u",
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.SocialLinks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d links", len(got))
	}
	// Normalised: platform-sorted, active.
	if got[0].Platform != "facebook" || !got[0].IsActive {
		t.Fatalf("got %+v", got)
	}
}

func TestUniversalFormData_EmptyDefault(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	data, err := s.UniversalFormData(ctx)
	if err != nil || data == nil || len(data) != 0 {
		t.Fatalf("got %v, %v", data, err)
	}

	want := map[string]string{"email": "a@b.c", "phone": "12345"}
	if err := s.SetUniversalFormData(ctx, want); err != nil {
		t.Fatal(err)
	}
	data, err = s.UniversalFormData(ctx)
	if err != nil || data["email"] != "a@b.c" || data["phone"] != "12345" {
		t.Fatalf("got %v, %v", data, err)
	}
}

func TestSettings_Defaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	st, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.AutofillEnabled || !st.RadioRules || st.DebugMode {
		t.Fatalf("defaults = %+v", st)
	}

	st.DebugMode = true
	if err := s.SetSettings(ctx, st); err != nil {
		t.Fatal(err)
	}
	st2, err := s.Settings(ctx)
	if err != nil || !st2.DebugMode {
		t.Fatalf("got %+v, %v", st2, err)
	}
}

func TestRadioRules_CRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.PutRadioRule(ctx, `input[name=agree]`, true); err != nil {
		t.Fatal(err)
	}
	if err := s.PutRadioRule(ctx, `input[name=newsletter]`, false); err != nil {
		t.Fatal(err)
	}

	rules, err := s.RadioRules(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 || !rules[`input[name=agree]`] || rules[`input[name=newsletter]`] {
		t.Fatalf("rules = %v", rules)
	}

	// Update flips the flag in place.
	if err := s.PutRadioRule(ctx, `input[name=newsletter]`, true); err != nil {
		t.Fatal(err)
	}
	rules, _ = s.RadioRules(ctx)
	if !rules[`input[name=newsletter]`] {
		t.Fatal("update lost")
	}

	if err := s.DeleteRadioRule(ctx, `input[name=agree]`); err != nil {
		t.Fatal(err)
	}
	rules, _ = s.RadioRules(ctx)
	if len(rules) != 1 {
		t.Fatalf("rules after delete = %v", rules)
	}

	// Absent pattern: no-op.
	if err := s.DeleteRadioRule(ctx, `input[name=ghost]`); err != nil {
		t.Fatal(err)
	}
}

func TestFillPassword_SealAndOpen(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Nothing stored yet.
	pw, err := s.FillPassword(ctx, "pass")
	if err != nil || pw != "" {
		t.Fatalf("got %q, %v", pw, err)
	}

	if err := s.SetFillPassword(ctx, "pass", "s3cret"); err != nil {
		t.Fatal(err)
	}
	pw, err = s.FillPassword(ctx, "pass")
	if err != nil || pw != "s3cret" {
		t.Fatalf("got %q, %v", pw, err)
	}

	if _, err := s.FillPassword(ctx, "wrong"); !errors.Is(err, ErrBadPassphrase) {
		t.Fatalf("got %v, want ErrBadPassphrase", err)
	}

	// The clear text must not sit in profile_values.
	var n int
	if err := s.DB.QueryRow(
		`SELECT COUNT(*) FROM profile_values WHERE value LIKE '%s3cret%'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal("password stored in the clear")
	}
}
