package main

import (
	"context"
	"flag"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/erazemk/zbirka/internal/api"
	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/stats"
)

func parse(t *testing.T, cmd subcommands.Command, args ...string) *flag.FlagSet {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("parsing %v: %v", args, err)
	}
	return f
}

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := parse(t, cmd, args...)
	return cmd.Execute(context.Background(), f)
}

func TestSessionFile(t *testing.T) {
	t.Setenv("ZBIRKA_CONFIG", t.TempDir())

	s, err := loadSession()
	if err != nil || s != nil {
		t.Fatalf("loadSession with no file = %v, %v", s, err)
	}

	want := &savedSession{
		Server:  "http://example.com",
		Session: auth.Session{UserID: "u1", Email: "ana@example.com", Token: "tok"},
	}
	if err := saveSession(want); err != nil {
		t.Fatalf("saveSession: %v", err)
	}
	got, err := loadSession()
	if err != nil {
		t.Fatalf("loadSession: %v", err)
	}
	if *got != *want {
		t.Errorf("loaded %+v, want %+v", got, want)
	}

	if err := clearSession(); err != nil {
		t.Fatalf("clearSession: %v", err)
	}
	if err := clearSession(); err != nil {
		t.Errorf("clearing a missing session: %v", err)
	}
	if s, _ := loadSession(); s != nil {
		t.Error("expected session to be gone")
	}
}

func TestServerResolve(t *testing.T) {
	var sf serverFlag
	if got := sf.resolve(nil); got != defaultServer {
		t.Errorf("default = %q", got)
	}
	saved := &savedSession{Server: "http://saved"}
	if got := sf.resolve(saved); got != "http://saved" {
		t.Errorf("saved = %q", got)
	}
	sf.server = "http://flag"
	if got := sf.resolve(saved); got != "http://flag" {
		t.Errorf("flag = %q", got)
	}
}

func TestReadPassword(t *testing.T) {
	if got, _ := readPassword("secret", strings.NewReader("ignored\n")); got != "secret" {
		t.Errorf("flag password = %q", got)
	}
	if got, _ := readPassword("", strings.NewReader("hunter22\r\nmore")); got != "hunter22" {
		t.Errorf("stdin password = %q", got)
	}
	if got, _ := readPassword("", strings.NewReader("noeol")); got != "noeol" {
		t.Errorf("stdin password without newline = %q", got)
	}
}

func TestUpdatePatch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(model.ItemPatch) bool
		wantErr bool
	}{
		{
			name:  "status only",
			args:  []string{"-status", "Sold", "id1"},
			check: func(p model.ItemPatch) bool { return *p.Status == model.StatusSold && p.SellPrice == nil && p.Notes == nil },
		},
		{
			name: "clear sell price",
			args: []string{"-sell", "", "id1"},
			check: func(p model.ItemPatch) bool {
				return p.SellPrice != nil && !p.SellPrice.Valid && p.Status == nil
			},
		},
		{
			name: "prices",
			args: []string{"-price", "$12.50", "-sell", "20", "id1"},
			check: func(p model.ItemPatch) bool {
				return p.PurchasePrice.Equal(decimal.RequireFromString("12.5")) &&
					p.SellPrice.Decimal.Equal(decimal.NewFromInt(20))
			},
		},
		{
			name:  "empty notes are written",
			args:  []string{"-notes", "", "id1"},
			check: func(p model.ItemPatch) bool { return p.Notes != nil && *p.Notes == "" },
		},
		{name: "nothing set", args: []string{"id1"}, wantErr: true},
		{name: "bad price", args: []string{"-price", "abc", "id1"}, wantErr: true},
		{name: "bad status", args: []string{"-status", "Lost", "id1"}, wantErr: true},
		{name: "negative sell", args: []string{"-sell", "-3", "id1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &updateCmd{}
			f := parse(t, cmd, tt.args...)
			p, err := cmd.patch(f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("patch error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !tt.check(p) {
				t.Errorf("unexpected patch %+v", p)
			}
		})
	}
}

func TestAddNewItem(t *testing.T) {
	cmd := &addCmd{}
	parse(t, cmd, "-character", "Labubu", "-series", "Have A Seat", "-item", "Sisi", "-price", "27.50")
	n, err := cmd.newItem()
	if err != nil {
		t.Fatalf("newItem: %v", err)
	}
	if n.Status != model.StatusOwned || !n.PurchasePrice.Equal(decimal.RequireFromString("27.5")) || n.SellPrice.Valid {
		t.Errorf("unexpected item %+v", n)
	}

	missing := &addCmd{}
	parse(t, missing, "-character", "Labubu", "-series", "Have A Seat", "-item", "Sisi")
	if _, err := missing.newItem(); err == nil || err.Error() != "purchase price required" {
		t.Errorf("expected purchase price error, got %v", err)
	}
}

func TestListFilter(t *testing.T) {
	cmd := &listCmd{}
	parse(t, cmd, "-status", "For Sale", "-sort", "profit")
	f, err := cmd.filter()
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if f.Status != model.StatusForSale || f.Series != model.FilterAll || f.Sort != "profit" {
		t.Errorf("filter = %+v", f)
	}

	bad := &listCmd{}
	parse(t, bad, "-sort", "name")
	if _, err := bad.filter(); err == nil {
		t.Error("expected error for unknown sort")
	}
	bad = &listCmd{}
	parse(t, bad, "-status", "sold")
	if _, err := bad.filter(); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestItemsMarkdown(t *testing.T) {
	if got := itemsMarkdown(nil); !strings.Contains(got, "No items") {
		t.Errorf("empty table = %q", got)
	}

	md := itemsMarkdown([]model.Item{{
		ID:            "abc",
		Character:     "Labubu",
		Series:        "Have A Seat",
		Item:          "Si|si",
		PurchasePrice: decimal.NewFromInt(30),
		SellPrice:     decimal.NewNullDecimal(decimal.NewFromInt(45)),
		Status:        model.StatusSold,
	}})
	for _, want := range []string{"$30.00", "$45.00", "+$15.00", `Si\|si`, "`abc`", "1 item(s)"} {
		if !strings.Contains(md, want) {
			t.Errorf("table missing %q:\n%s", want, md)
		}
	}
}

func TestStatsMarkdown(t *testing.T) {
	s := stats.Summary{
		TotalItems:  3,
		TotalSpent:  decimal.NewFromInt(75),
		TotalEarned: decimal.NewFromInt(35),
		NetProfit:   decimal.NewFromInt(5),
		Owned:       1,
		Sold:        1,
		ForSale:     1,
	}
	md := statsMarkdown(s)
	for _, want := range []string{"| Total items | 3 |", "$75.00", "$35.00", "+$5.00", "| For Sale | 1 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestCatalogMarkdown(t *testing.T) {
	d := catalog.Get()
	ch := d.Characters[0]
	series := d.SeriesByCharacter[ch][0]

	md := catalogMarkdown(d, ch, series)
	if !strings.Contains(md, "# "+ch) || !strings.Contains(md, d.PopMartURL(ch, series)) {
		t.Errorf("catalog output missing %s/%s:\n%s", ch, series, md)
	}
	if got := catalogMarkdown(d, "Nobody", ""); !strings.Contains(got, "Nothing") {
		t.Errorf("unknown character = %q", got)
	}
}

func TestClientCommands(t *testing.T) {
	t.Setenv("ZBIRKA_CONFIG", t.TempDir())

	database := db.NewTestDB(t)
	srv := httptest.NewServer(api.NewRouter(database, "test-secret", nil))
	defer srv.Close()

	// Signed out.
	if got := run(t, &listCmd{}, "-server", srv.URL); got != subcommands.ExitFailure {
		t.Errorf("list signed out = %v", got)
	}

	if got := run(t, &signupCmd{}, "-server", srv.URL, "-email", "ana@example.com", "-password", "short"); got != subcommands.ExitFailure {
		t.Errorf("signup with short password = %v", got)
	}
	if got := run(t, &signupCmd{}, "-server", srv.URL, "-email", "ana@example.com", "-password", "secret123"); got != subcommands.ExitSuccess {
		t.Fatalf("signup = %v", got)
	}
	saved, _ := loadSession()
	if saved == nil || saved.Server != srv.URL || saved.Email != "ana@example.com" {
		t.Fatalf("saved session = %+v", saved)
	}

	d := catalog.Get()
	ch := d.Characters[0]
	series := d.SeriesByCharacter[ch][0]
	item := d.ItemNames(series)[0]

	if got := run(t, &addCmd{}, "-character", ch, "-series", series, "-item", "Not In Catalog", "-price", "10"); got != subcommands.ExitFailure {
		t.Errorf("add unknown item = %v", got)
	}
	if got := run(t, &addCmd{}, "-character", ch, "-series", series, "-item", item, "-price", "30"); got != subcommands.ExitSuccess {
		t.Fatalf("add = %v", got)
	}

	ctl, _, err := (&serverFlag{}).signedIn()
	if err != nil {
		t.Fatalf("signedIn: %v", err)
	}
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	items := ctl.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	id := items[0].ID
	if items[0].Image != d.ImageFor(series, item) {
		t.Errorf("image = %q, want catalog image", items[0].Image)
	}

	if got := run(t, &updateCmd{}, "-status", "Sold", "-sell", "45", id); got != subcommands.ExitSuccess {
		t.Fatalf("update = %v", got)
	}
	ctl.Load(context.Background())
	if s := ctl.Stats(); !s.NetProfit.Equal(decimal.NewFromInt(15)) || s.Sold != 1 {
		t.Errorf("stats after sale = %+v", s)
	}

	for _, cmd := range []subcommands.Command{&listCmd{}, &statsCmd{}} {
		if got := run(t, cmd, "-style", "notty"); got != subcommands.ExitSuccess {
			t.Errorf("%s = %v", cmd.Name(), got)
		}
	}

	if got := run(t, &updateCmd{}, "-status", "Sold", "missing-id"); got != subcommands.ExitFailure {
		t.Errorf("update missing item = %v", got)
	}
	if got := run(t, &deleteCmd{}, id); got != subcommands.ExitSuccess {
		t.Errorf("delete = %v", got)
	}
	if got := run(t, &whoamiCmd{}); got != subcommands.ExitSuccess {
		t.Errorf("whoami = %v", got)
	}

	token := saved.Token
	if got := run(t, &logoutCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("logout = %v", got)
	}
	if s, _ := loadSession(); s != nil {
		t.Error("expected session file to be removed")
	}

	// The revoked token is refused even if it is written back.
	saveSession(&savedSession{Server: srv.URL, Session: auth.Session{UserID: saved.UserID, Email: saved.Email, Token: token}})
	if got := run(t, &listCmd{}); got != subcommands.ExitFailure {
		t.Errorf("list with revoked token = %v", got)
	}

	if got := run(t, &loginCmd{}, "-server", srv.URL, "-email", "ana@example.com", "-password", "secret123"); got != subcommands.ExitSuccess {
		t.Fatalf("login = %v", got)
	}
	if got := run(t, &deleteAccountCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("delete-account without confirm = %v", got)
	}
	if got := run(t, &deleteAccountCmd{}, "-confirm", "DELETE"); got != subcommands.ExitSuccess {
		t.Errorf("delete-account = %v", got)
	}
	if got := run(t, &loginCmd{}, "-server", srv.URL, "-email", "ana@example.com", "-password", "secret123"); got != subcommands.ExitFailure {
		t.Errorf("login after delete = %v", got)
	}
}
