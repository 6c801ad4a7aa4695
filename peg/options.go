package peg

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeASTOptions decodes a loose options bag into ASTOptions. The ignore
// entry accepts a single production name or a list of names:
//
//	DecodeASTOptions(map[string]any{"ignore": "ws"})
//	DecodeASTOptions(map[string]any{"ignore": []string{"ws", "s"}})
//
// Unrecognized keys are rejected.
func DecodeASTOptions(raw map[string]any) (ASTOptions, error) {
	var opts ASTOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("ast options: %w", err)
	}
	return opts, nil
}
