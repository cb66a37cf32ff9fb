package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/bizcore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openRegisterBody struct {
	OperatorID string `json:"operator_id" binding:"required,uuid"`
	Notes      string `json:"notes" binding:"max=10"`
	Method     string `form:"method" json:"-" binding:"omitempty,oneof=CASH CARD"`
}

func bindAndRespond(t *testing.T, body string) (int, dto.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/cash-registers", func(c *gin.Context) {
		var req openRegisterBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/cash-registers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestHandleValidationError_FieldErrorsUseJSONNames(t *testing.T) {
	code, resp := bindAndRespond(t, `{"operator_id":"nope","notes":"far too long for this"}`)

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"operator_id": "Invalid UUID format",
		"notes":       "Must be at most 10 characters",
	}, messages)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	code, resp := bindAndRespond(t, `{"operator_id":`)

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.True(t, strings.HasPrefix(resp.Error.Message, "Malformed request: "))
}

func TestHandleValidationError_ValidBodyPasses(t *testing.T) {
	code, _ := bindAndRespond(t, `{"operator_id":"6f1c1b0e-8d7a-4a51-9d59-0b3d9f7f2a11"}`)
	assert.Equal(t, http.StatusCreated, code)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Name     string `validate:"required"`
		Code     string `validate:"len=3"`
		Note     string `validate:"min=5"`
		Priority int    `validate:"min=1"`
		Limit    int    `validate:"max=100"`
		Kind     string `validate:"oneof=IN OUT"`
		Discount int    `validate:"gte=0"`
		Digits   string `validate:"numeric"`
		Weird    string `validate:"alpha"`
	}

	err := validator.New().Struct(sample{Code: "ab", Note: "abc", Limit: 101, Kind: "X", Discount: -1, Digits: "x1", Weird: "1"})
	require.Error(t, err)

	got := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		got[fe.Field()] = getValidationMessage(fe)
	}

	assert.Equal(t, map[string]string{
		"Name":     "This field is required",
		"Code":     "Must be exactly 3 characters",
		"Note":     "Must be at least 5 characters",
		"Priority": "Must be at least 1",
		"Limit":    "Must be at most 100",
		"Kind":     "Must be one of: IN OUT",
		"Discount": "Must be greater than or equal to 0",
		"Digits":   "Must be numeric",
		"Weird":    "Invalid value",
	}, got)
}

func TestWireFieldName(t *testing.T) {
	typ := reflect.TypeOf(openRegisterBody{})
	f, _ := typ.FieldByName("OperatorID")
	assert.Equal(t, "operator_id", wireFieldName(f))
	f, _ = typ.FieldByName("Method")
	assert.Equal(t, "", wireFieldName(f))
}
