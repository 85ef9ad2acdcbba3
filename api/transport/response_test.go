package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeWireShape(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		out, err := json.Marshal(NewSuccess(map[string]string{"id": "t-1"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"success","data":{"id":"t-1"}}`, string(out))
	})

	t.Run("error", func(t *testing.T) {
		out, err := json.Marshal(NewError("CONFLICT", "Email already in use"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"error","code":"CONFLICT","error":"Email already in use"}`, string(out))
	})

	t.Run("validation error names fields", func(t *testing.T) {
		out, err := json.Marshal(NewInvalid("INVALID", []FieldError{
			{Field: "email", Message: "must be a valid email address"},
		}))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"status":"error","code":"INVALID","error":"validation failed","fields":[{"field":"email","message":"must be a valid email address"}]}`,
			string(out))
	})
}
