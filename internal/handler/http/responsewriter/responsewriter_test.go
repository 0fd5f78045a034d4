package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Equal(t, 0, w.BytesWritten())
}

func TestWriteHeaderRecordsFirstStatusOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusNotFound)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusNotFound, w.StatusCode())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteCountsBytesAcrossWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	_, err := w.Write([]byte(`{"title":`))
	require.NoError(t, err)
	_, err = w.Write([]byte(`"Cowboy Bebop"}`))
	require.NoError(t, err)

	assert.Equal(t, 24, w.BytesWritten())
	assert.Equal(t, `{"title":"Cowboy Bebop"}`, rec.Body.String())
}

func TestWriteImpliesStatusOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	_, err := w.Write([]byte("body"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnwrapReturnsInnerWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Equal(t, rec, Wrap(rec).Unwrap())
}

func TestWrapInsideMiddleware(t *testing.T) {
	var status, size int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := Wrap(w)
			next.ServeHTTP(rw, r)
			status, size = rw.StatusCode(), rw.BytesWritten()
		})
	}

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anime/999", nil))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, 9, size)
	assert.Equal(t, "not found", rec.Body.String())
}
