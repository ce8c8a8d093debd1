package filter

import (
	"testing"
	"time"
)

func TestParseTributeFilterEmpty(t *testing.T) {
	cond, err := ParseTributeFilter("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cond.Empty() {
		t.Fatalf("condition = %+v, want empty", cond)
	}
}

func TestParseTributeFilterEquality(t *testing.T) {
	cond, err := ParseTributeFilter(`status = "pending"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "status = ?" {
		t.Fatalf("clause = %q, want %q", cond.Clause, "status = ?")
	}
	if len(cond.Params) != 1 || cond.Params[0] != "pending" {
		t.Fatalf("params = %v, want [pending]", cond.Params)
	}
}

func TestParseTributeFilterLogical(t *testing.T) {
	cond, err := ParseTributeFilter(`status = "pending" AND (faction_id = "league" OR faction_id = "rangers")`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "(status = ? AND (faction_id = ? OR faction_id = ?))"
	if cond.Clause != want {
		t.Fatalf("clause = %q, want %q", cond.Clause, want)
	}
	if len(cond.Params) != 3 {
		t.Fatalf("params = %v, want 3 values", cond.Params)
	}
}

func TestParseTributeFilterTimestamp(t *testing.T) {
	cond, err := ParseTributeFilter(`submitted_at >= timestamp("2026-01-02T03:04:05Z")`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli()
	if cond.Clause != "submitted_at >= ?" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if got, ok := cond.Params[0].(int64); !ok || got != want {
		t.Fatalf("param = %v, want %d", cond.Params[0], want)
	}
}

func TestParseTributeFilterRejectsUnknownField(t *testing.T) {
	if _, err := ParseTributeFilter(`note = "x"`); err == nil {
		t.Fatal("expected error for undeclared field")
	}
	if _, err := ParseTributeFilter(`status = `); err == nil {
		t.Fatal("expected error for malformed filter")
	}
}

func TestConditionAnd(t *testing.T) {
	a := Condition{Clause: "status = ?", Params: []any{"pending"}}
	b := Condition{Clause: "trainer_id = ?", Params: []any{"t1"}}

	if got := (Condition{}).And(b); got.Clause != b.Clause {
		t.Fatalf("empty.And = %q", got.Clause)
	}
	if got := a.And(Condition{}); got.Clause != a.Clause {
		t.Fatalf("a.And(empty) = %q", got.Clause)
	}
	got := a.And(b)
	if got.Clause != "(status = ? AND trainer_id = ?)" || len(got.Params) != 2 {
		t.Fatalf("a.And(b) = %+v", got)
	}
}

func TestRebind(t *testing.T) {
	got := Rebind("(status = ? AND trainer_id = ?)", 3)
	want := "(status = $3 AND trainer_id = $4)"
	if got != want {
		t.Fatalf("Rebind = %q, want %q", got, want)
	}
}
