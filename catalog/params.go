package catalog

import (
	"fmt"
	"strings"
)

// Profile is the slice of an external profile document the resolver consumes:
// its declared parameter overrides. Profile resolution itself happens
// upstream; by the time a profile reaches this package it is plain data.
type Profile struct {
	Metadata Metadata       `json:"metadata" yaml:"metadata"`
	Modify   *ProfileModify `json:"modify,omitempty" yaml:"modify,omitempty"`
}

// ProfileModify holds a profile's set-parameter declarations.
type ProfileModify struct {
	SetParameters []SetParameter `json:"set-parameters,omitempty" yaml:"set-parameters,omitempty"`
}

// SetParameter overrides one parameter's display content.
type SetParameter struct {
	ParamID string   `json:"param-id" yaml:"param-id"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// FullProfileParamDict collects every parameter override declared in the
// profile, keyed by parameter id. Later declarations for the same id win.
func FullProfileParamDict(profile *Profile) map[string]SetParameter {
	dict := map[string]SetParameter{}
	if profile == nil || profile.Modify == nil {
		return dict
	}
	for _, setParam := range profile.Modify.SetParameters {
		dict[setParam.ParamID] = setParam
	}
	return dict
}

// ControlParamDict resolves the control's parameters against the profile's
// overrides. A parameter with an override takes the override's label, values,
// and choices; one without is used unchanged.
func ControlParamDict(ctl *Control, fullDict map[string]SetParameter) map[string]Parameter {
	dict := make(map[string]Parameter, len(ctl.Params))
	for _, param := range ctl.Params {
		if setParam, ok := fullDict[param.ID]; ok {
			if setParam.Label != "" {
				param.Label = setParam.Label
			}
			if len(setParam.Values) > 0 {
				param.Values = setParam.Values
			}
			if len(setParam.Choices) > 0 {
				param.Choices = setParam.Choices
			}
		}
		dict[param.ID] = param
	}
	return dict
}

// ParamToString renders a parameter for display. The fallback order is a hard
// contract: values joined with sep, else label, else the choice set, else the
// bare parameter id.
func ParamToString(param Parameter, sep string) string {
	if sep == "" {
		sep = ", "
	}
	switch {
	case len(param.Values) > 0:
		return strings.Join(param.Values, sep)
	case param.Label != "":
		return param.Label
	case len(param.Choices) > 0:
		return fmt.Sprintf("[%s]", strings.Join(param.Choices, ", "))
	default:
		return param.ID
	}
}
