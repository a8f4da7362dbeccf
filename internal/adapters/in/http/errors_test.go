package http

import (
	"errors"
	"fmt"
	standardhttp "net/http"
	"net/http/httptest"
	"testing"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("parcelId", "x"), standardhttp.StatusNotFound},
		{"invalid transition", errs.NewInvalidTransitionError("pending", "completed"), standardhttp.StatusUnprocessableEntity},
		{"conflict", errs.NewConflictError("parcel", "x"), standardhttp.StatusConflict},
		{"assignment forbidden", commands.ErrAssignmentForbidden, standardhttp.StatusForbidden},
		{"inactive driver", driver.ErrDriverIsInactive, standardhttp.StatusUnprocessableEntity},
		{"deleted parcel", parcel.ErrParcelIsDeleted, standardhttp.StatusUnprocessableEntity},
		{"invalid value", errs.NewValueIsInvalidError("status"), standardhttp.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("name"), standardhttp.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", -1, 0, nil), standardhttp.StatusBadRequest},
		{"empty bulk request", commands.ErrBulkAssignItemsAreRequired, standardhttp.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load parcel: %w", errs.NewObjectNotFoundError("parcelId", "x")), standardhttp.StatusNotFound},
		{"unknown", errors.New("boom"), standardhttp.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, statusForError(test.err))
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	e := echo.New()
	request := httptest.NewRequest(standardhttp.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	ctx := e.NewContext(request, recorder)

	err := respondError(ctx, errors.New("pq: connection refused"))

	require.NoError(t, err)
	assert.Equal(t, standardhttp.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestActorFromRequest(t *testing.T) {
	e := echo.New()

	newContext := func(id, role string) echo.Context {
		request := httptest.NewRequest(standardhttp.MethodGet, "/", nil)
		if id != "" {
			request.Header.Set(headerActorID, id)
		}
		if role != "" {
			request.Header.Set(headerActorRole, role)
		}
		return e.NewContext(request, httptest.NewRecorder())
	}

	t.Run("valid headers", func(t *testing.T) {
		id := kernel.NewUUID()
		actor, err := actorFromRequest(newContext(id.String(), "driver"))

		require.NoError(t, err)
		assert.Equal(t, id, actor.ID())
		assert.Equal(t, kernel.RoleDriver, actor.Role())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := actorFromRequest(newContext("", "driver"))

		require.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := actorFromRequest(newContext(kernel.NewUUID().String(), "owner"))

		require.Error(t, err)
	})
}
