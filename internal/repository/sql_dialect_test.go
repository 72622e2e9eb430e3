package repository

import (
	"strings"
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite operator want LIKE got %s", got)
	}
	if got := likeOperatorByDialect(""); got != "LIKE" {
		t.Fatalf("default operator want LIKE got %s", got)
	}
}

func TestBuildSearchLikeCondition(t *testing.T) {
	condition, argCount := buildSearchLikeConditionByDialect("sqlite", []string{"name", "description", ""})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if !strings.Contains(condition, "name LIKE ?") {
		t.Fatalf("condition should contain name LIKE, got %s", condition)
	}
	if !strings.Contains(condition, "description LIKE ?") {
		t.Fatalf("condition should contain description LIKE, got %s", condition)
	}

	condition, _ = buildSearchLikeConditionByDialect("postgres", []string{"name"})
	if condition != "name ILIKE ?" {
		t.Fatalf("postgres condition want name ILIKE ? got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
