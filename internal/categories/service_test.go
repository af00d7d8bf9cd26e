package categories

import (
	"testing"

	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
)

func TestParseStyles(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		styles, err := parseStyles("")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if styles == nil || len(styles) != 0 {
			t.Fatalf("expected empty styles, got %v", styles)
		}
	})

	t.Run("valid", func(t *testing.T) {
		styles, err := parseStyles(`[{"name": "Solitaire", "image": "/images/solitaire.jpg"}]`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(styles) != 1 || styles[0].Name != "Solitaire" {
			t.Fatalf("unexpected styles %v", styles)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parseStyles(`{"name": "x"}`)
		if err == nil {
			t.Fatal("expected error for non-array styles")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestParseSubcategoriesAssignsIDs(t *testing.T) {
	subs, err := parseSubcategories(`[{"name": "Engagement"}, {"id": "fixed", "name": "Eternity"}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subcategories, got %d", len(subs))
	}
	if subs[0].ID == "" {
		t.Fatal("expected generated id for first subcategory")
	}
	if subs[1].ID != "fixed" {
		t.Fatalf("expected provided id kept, got %q", subs[1].ID)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
