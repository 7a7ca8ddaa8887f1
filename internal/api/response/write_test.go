package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/crackthecode/internal/model"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, Message{Message: "ok"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
}

func TestJSONEncodingFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, GroupFromModel(&model.Group{Name: "g", Admin: "a"}))

	assert.JSONEq(t, `{"name":"g","admin":"a","members":[]}`, rr.Body.String())
}
