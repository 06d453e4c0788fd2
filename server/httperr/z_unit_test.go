package httperr

import (
	"context"
	"net/http"
	"testing"

	"github.com/zintix-labs/randlab/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.NewNullArg("x"), http.StatusBadRequest},
		{errs.NewInvalidParam("x"), http.StatusBadRequest},
		{errs.NewInvalidRange("x"), http.StatusBadRequest},
		{errs.NewInfiniteBound("x"), http.StatusBadRequest},
		{errs.NewUnsupportedMoment("x"), http.StatusUnprocessableEntity},
		{errs.NewInternal("x"), http.StatusInternalServerError},
		{errs.Wrap(errs.NewInvalidParam("x"), "wrapped"), http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("StatusCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
