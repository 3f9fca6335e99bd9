package delivery

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestFetchErrorMessage(t *testing.T) {
	err := newFetchError("home", "req", errors.New("timeout"))
	if err.Error() != "Could not fetch content for home: timeout" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	bare := newFetchError("home", "", nil)
	if bare.Error() != "Could not fetch content for home" {
		t.Fatalf("unexpected message %q", bare.Error())
	}
}

func TestFetchErrorCategory(t *testing.T) {
	cases := []struct {
		name  string
		cause error
		want  goerrors.Category
	}{
		{name: "nil cause", cause: nil, want: goerrors.CategoryExternal},
		{name: "plain cause", cause: errors.New("boom"), want: goerrors.CategoryExternal},
		{name: "categorized", cause: goerrors.New("denied", goerrors.CategoryAuth), want: goerrors.CategoryAuth},
		{name: "wrapped", cause: goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "space not found"), want: goerrors.CategoryNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newFetchError("home", "", tc.cause).Category(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFetchErrorMatching(t *testing.T) {
	cause := errors.New("offline")
	var err error = newFetchError("home", "", cause)

	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed match")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause match")
	}
	if errors.Is(err, ErrPageIDRequired) {
		t.Fatalf("unexpected sentinel match")
	}

	var nilErr *FetchError
	if nilErr.Error() != ErrFetchFailed.Error() || nilErr.Unwrap() != nil {
		t.Fatalf("expected nil fetch error to be safe")
	}
}
