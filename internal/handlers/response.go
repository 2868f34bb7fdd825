package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Every endpoint answers with the same envelope: {"success": true, "data": ...}
// or {"success": false, "error": "..."}.

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// RegisterValidators installs the custom binding rules used by request
// structs (currently the Indian 6-digit pincode).
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodePattern.MatchString(fl.Field().String())
		})
	}
}
