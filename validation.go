package pate

import (
	"github.com/reglet-dev/pate/application/validation"
)

// Decode copies a Dict into the struct target through its json tags and runs
// the struct's validate tags.
//
//	type Editor struct {
//	    TabWidth int `json:"tab_width" validate:"min=1,max=16"`
//	}
//	var e Editor
//	err := pate.Decode(group, &e)
func Decode(d Dict, target interface{}) error {
	return validation.ValidateMap(d, target)
}
