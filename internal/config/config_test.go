package config

import (
	"reflect"
	"testing"
)

func TestAggregateAPIKeys_CommaSeparatedPrimary(t *testing.T) {
	got := AggregateAPIKeys("gsk_aaa,gsk_bbb", nil)
	want := []string{"gsk_aaa", "gsk_bbb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAggregateAPIKeys_SanitizesQuotesAndWhitespace(t *testing.T) {
	got := AggregateAPIKeys(` "gsk_aaa" , 'gsk_bbb'`, []string{"\tgsk_ccc\n"})
	want := []string{"gsk_aaa", "gsk_bbb", "gsk_ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAggregateAPIKeys_DropsEmptyEntries(t *testing.T) {
	got := AggregateAPIKeys(`,"" , `, []string{"''"})
	if len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestAggregateAPIKeys_IndexedAfterPrimary(t *testing.T) {
	got := AggregateAPIKeys("gsk_primary", []string{"gsk_1", "gsk_2"})
	want := []string{"gsk_primary", "gsk_1", "gsk_2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
