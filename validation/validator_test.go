package validation

import (
	"errors"
	"strings"
	"testing"
)

type item struct {
	ID   int    `validate:"min=1"`
	Name string `validate:"required"`
}

type bag struct {
	Items []item `validate:"unique=ID,dive"`
	Mode  string `validate:"oneof=a b"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      bag
		wantErr []string
	}{
		{
			name: "valid",
			in:   bag{Items: []item{{1, "x"}, {2, "y"}}, Mode: "a"},
		},
		{
			name:    "field rules",
			in:      bag{Items: []item{{0, ""}}, Mode: "a"},
			wantErr: []string{"items[0].id must be at least 1", "items[0].name is required"},
		},
		{
			name:    "duplicate ids",
			in:      bag{Items: []item{{1, "x"}, {1, "y"}}, Mode: "b"},
			wantErr: []string{"items must not contain duplicate id values"},
		},
		{
			name:    "enum",
			in:      bag{Mode: "c"},
			wantErr: []string{"mode must be one of: a b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var errs Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected Errors, got %T: %v", err, err)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestErrorsAdd(t *testing.T) {
	var errs Errors
	if errs.Err() != nil {
		t.Fatal("empty Errors should yield a nil error")
	}
	errs.Add("connections[0].fromId", "must be at least %d", 1)
	if got := errs.Err().Error(); got != "connections[0].fromId must be at least 1" {
		t.Errorf("Err() = %q", got)
	}
}
