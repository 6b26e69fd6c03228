package ui

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/mkp/pkg/errors"
)

// errorView is the structured form of an error shared by all renderers
type errorView struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Path    string         `json:"path,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	// Items are list-valued details such as schema problems
	Items []string `json:"-"`
}

// listDetails are rendered as bullet lists, in this order
var listDetails = []string{"problems", "missing", "unlisted"}

func newErrorView(err error) errorView {
	v := errorView{
		Code:    string(errors.GetErrorCode(err)),
		Message: err.Error(),
		Path:    errors.GetErrorPath(err),
	}

	details := errors.GetErrorDetails(err)
	if len(details) > 0 {
		v.Details = make(map[string]any, len(details))
		for k, val := range details {
			if k == errors.DetailPath {
				continue
			}
			v.Details[k] = val
		}
	}
	for _, key := range listDetails {
		list, ok := details[key].([]string)
		if !ok {
			continue
		}
		for _, item := range list {
			v.Items = append(v.Items, fmt.Sprintf("%s: %s", key, item))
		}
	}
	return v
}

// scalarDetails returns details that are not lists, sorted by key
func (v errorView) scalarDetails() []field {
	var fields []field
	for k, val := range v.Details {
		if _, ok := val.([]string); ok {
			continue
		}
		fields = append(fields, field{k, fmt.Sprint(val)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}
