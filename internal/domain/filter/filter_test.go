package filter

import (
	"reflect"
	"testing"
)

func TestWhereClause_Universal(t *testing.T) {
	if Universal().WhereClause() != nil {
		t.Fatal("universal filter must render nil")
	}
}

func TestWhereClause_NumericEqualityKeepsOperator(t *testing.T) {
	f := New(Leaf{Field: "price", Op: "$eq", Value: float64(2000)})

	want := map[string]any{"price": map[string]any{"$eq": float64(2000)}}
	if got := f.WhereClause(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWhereClause_TagEqualityShorthand(t *testing.T) {
	f := New(Leaf{Field: "color", Op: "$eq", Value: "red"})

	want := map[string]any{"color": "red"}
	if got := f.WhereClause(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWhereClause_Conjunction(t *testing.T) {
	f := New(
		Leaf{Field: "color", Op: "$eq", Value: "red"},
		Leaf{Field: "price", Op: "$lte", Value: float64(2000)},
	)

	where := f.WhereClause()
	and, ok := where["$and"].([]map[string]any)
	if !ok || len(and) != 2 {
		t.Fatalf("expected two-clause $and, got %v", where)
	}
}
