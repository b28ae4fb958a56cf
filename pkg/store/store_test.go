package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xo/dburl"

	"github.com/go-prewash/prewash/pkg/model"
	"github.com/go-prewash/prewash/pkg/prewash"
)

type user struct {
	ID    int64  `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
}

// fakeExecer records executed statements.
type fakeExecer struct {
	queries []string
	args    [][]any
	err     error
	rows    int64
}

func (f *fakeExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.err != nil {
		return nil, f.err
	}
	return fakeResult{rows: f.rows}, nil
}

type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

func newUserRegistry(t *testing.T) *prewash.Registry {
	t.Helper()
	reg := prewash.New()
	if _, err := model.Register[user](reg.Models(), "auth.User"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.CleansField("auth.User.email", strings.ToLower); err != nil {
		t.Fatalf("CleansField() error = %v", err)
	}
	return reg
}

func TestSave_CleansBeforeInsert(t *testing.T) {
	db := &fakeExecer{rows: 1}
	s := New(db, newUserRegistry(t))

	u := &user{ID: 1, Email: "ADA@X.COM", Name: "Ada"}
	if err := s.Save(context.Background(), "auth.User", u); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(db.queries) != 1 {
		t.Fatalf("expected one statement, got %v", db.queries)
	}
	wantQuery := "INSERT INTO user (id, email, name) VALUES (?, ?, ?)"
	if db.queries[0] != wantQuery {
		t.Errorf("query = %q, want %q", db.queries[0], wantQuery)
	}
	wantArgs := []any{int64(1), "ada@x.com", "Ada"}
	if diff := cmp.Diff(wantArgs, db.args[0]); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	// The instance itself carries the cleaned value too.
	if u.Email != "ada@x.com" {
		t.Errorf("Email = %q, want cleaned value", u.Email)
	}
}

func TestSave_HookErrorAbortsBeforeSQL(t *testing.T) {
	reg := newUserRegistry(t)
	sentinel := errors.New("refused")
	if err := reg.CleansField("auth.User.name", func(string) (string, error) {
		return "", sentinel
	}); err != nil {
		t.Fatalf("CleansField() error = %v", err)
	}

	db := &fakeExecer{rows: 1}
	s := New(db, reg)

	err := s.Save(context.Background(), "auth.User", &user{Name: "x"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Save() error = %v, want sentinel", err)
	}
	if len(db.queries) != 0 {
		t.Errorf("no SQL should run after a hook error, got %v", db.queries)
	}
}

func TestSave_UnregisteredLabel(t *testing.T) {
	db := &fakeExecer{rows: 1}
	s := New(db, prewash.New())

	err := s.Save(context.Background(), "auth.User", &user{})
	if err == nil || !strings.Contains(err.Error(), "not a registered model") {
		t.Errorf("Save() error = %v, want unregistered-label error", err)
	}
}

func TestSave_ExecError(t *testing.T) {
	db := &fakeExecer{err: errors.New("duplicate key")}
	s := New(db, newUserRegistry(t))

	err := s.Save(context.Background(), "auth.User", &user{})
	if err == nil || !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("Save() error = %v, want wrapped exec error", err)
	}
}

func TestUpdate(t *testing.T) {
	db := &fakeExecer{rows: 1}
	s := New(db, newUserRegistry(t))

	u := &user{ID: 7, Email: "A@B.CO", Name: "Ada"}
	if err := s.Update(context.Background(), "auth.User", u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	wantQuery := "UPDATE user SET email = ?, name = ? WHERE id = ?"
	if db.queries[0] != wantQuery {
		t.Errorf("query = %q, want %q", db.queries[0], wantQuery)
	}
	wantArgs := []any{"a@b.co", "Ada", int64(7)}
	if diff := cmp.Diff(wantArgs, db.args[0]); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_NoRowMatched(t *testing.T) {
	db := &fakeExecer{rows: 0}
	s := New(db, newUserRegistry(t))

	err := s.Update(context.Background(), "auth.User", &user{ID: 99})
	if err == nil || !strings.Contains(err.Error(), "no row matched") {
		t.Errorf("Update() error = %v, want no-row-matched", err)
	}
}

func TestUpdate_CustomPrimaryKey(t *testing.T) {
	type account struct {
		UUID string `db:"uuid"`
		Name string `db:"name"`
	}
	reg := prewash.New()
	if _, err := model.Register[account](reg.Models(), "auth.Account"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	db := &fakeExecer{rows: 1}
	s := New(db, reg, WithPrimaryKey("uuid"))

	if err := s.Update(context.Background(), "auth.Account", &account{UUID: "u-1", Name: "n"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	wantQuery := "UPDATE account SET name = ? WHERE uuid = ?"
	if db.queries[0] != wantQuery {
		t.Errorf("query = %q, want %q", db.queries[0], wantQuery)
	}
}

func TestUpdate_MissingPrimaryKey(t *testing.T) {
	type note struct {
		Body string `db:"body"`
	}
	reg := prewash.New()
	if _, err := model.Register[note](reg.Models(), "app.Note"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	s := New(&fakeExecer{rows: 1}, reg)
	err := s.Update(context.Background(), "app.Note", &note{Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "primary key") {
		t.Errorf("Update() error = %v, want missing-primary-key", err)
	}
}

func TestTableFor(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"crm.Contact", "contact"},
		{"crm.OrderLine", "order_line"},
		{"news.Article", "article"},
		{"Bare", "bare"},
		{"a.HTTPLog", "h_t_t_p_log"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := TableFor(tt.label); got != tt.want {
				t.Errorf("TableFor(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestDSNFor(t *testing.T) {
	// mysql counts rows changed by default, so a no-op update would trip the
	// zero-row check in Update; Open must ask for matched-row counts.
	tests := []struct {
		name string
		url  string
		want func(t *testing.T, dsn string)
	}{
		{"mysql_plain", "mysql://user:pw@localhost/app", func(t *testing.T, dsn string) {
			if !strings.Contains(dsn, "?clientFoundRows=true") {
				t.Errorf("dsn = %q, want clientFoundRows=true appended", dsn)
			}
		}},
		{"mysql_existing_params", "mysql://localhost/app?parseTime=true", func(t *testing.T, dsn string) {
			if !strings.Contains(dsn, "clientFoundRows=true") {
				t.Errorf("dsn = %q, want clientFoundRows=true appended", dsn)
			}
			if strings.Count(dsn, "?") != 1 {
				t.Errorf("dsn = %q, want a single query separator", dsn)
			}
		}},
		{"other_driver_untouched", "postgres://localhost/app", func(t *testing.T, dsn string) {
			if strings.Contains(dsn, "clientFoundRows") {
				t.Errorf("dsn = %q, mysql option leaked into another driver", dsn)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := dburl.Parse(tt.url)
			if err != nil {
				t.Fatalf("dburl.Parse(%q) error = %v", tt.url, err)
			}
			tt.want(t, dsnFor(u))
		})
	}
}

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open("::not a url::", prewash.New()); err == nil {
		t.Error("Open() expected error for malformed url")
	}
}
