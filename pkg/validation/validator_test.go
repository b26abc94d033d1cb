package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string `json:"name" binding:"required,max=5"`
	Role   string `json:"role" binding:"omitempty,role"`
	Status string `json:"status" binding:"omitempty,notestatus"`
}

func TestToDetails(t *testing.T) {
	Init()

	t.Run("Should use json names and custom messages", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&sample{Name: "toolongname", Role: "ROOT", Status: "DONE"})
		d := ToDetails(err)
		assert.Equal(t, "must be at most 5 characters long", d["name"])
		assert.Equal(t, "must be one of: ADMIN, USER", d["role"])
		assert.Equal(t, "must be one of: PENDING, APPROVED, REJECTED", d["status"])
	})
	t.Run("Should report required fields", func(t *testing.T) {
		d := ToDetails(binding.Validator.ValidateStruct(&sample{}))
		assert.Equal(t, "is required", d["name"])
	})
	t.Run("Should flag syntax errors as invalid json", func(t *testing.T) {
		var v map[string]any
		err := json.Unmarshal([]byte("{"), &v)
		assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	})
	t.Run("Should accept valid enums", func(t *testing.T) {
		assert.NoError(t, binding.Validator.ValidateStruct(&sample{Name: "ok", Role: "USER", Status: "PENDING"}))
	})
}
